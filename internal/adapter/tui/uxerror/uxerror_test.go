package uxerror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"koordinator/internal/domain"
)

func TestHumanize(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		title string
	}{
		{"empty", domain.ErrEmptyInput, "Permintaan Kosong"},
		{"busy", domain.NewDomainError("Orchestrator.Submit", domain.ErrBusy, ""), "Permintaan Sedang Diproses"},
		{"missing key", fmt.Errorf("gemini: %w", domain.ErrConfigMissing), "Kunci API Tidak Ditemukan"},
		{"auth", domain.ErrAuthInvalid, "Autentikasi Gagal"},
		{"rate limit", domain.ErrRateLimit, "Layanan Sibuk"},
		{"circuit", domain.WrapOp("classify", domain.ErrCircuitOpen), "Layanan Sibuk"},
		{"timeout", domain.ErrTimeout, "Waktu Habis"},
		{"network", errors.New("dial tcp 127.0.0.1:443: connection refused"), "Koneksi Gagal"},
		{"fallback", errors.New("boom"), "Kesalahan Tak Terduga"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fe := Humanize(tt.err)
			assert.Equal(t, tt.title, fe.Title)
			assert.Equal(t, tt.err.Error(), fe.Raw)
		})
	}
}

func TestHumanizeNil(t *testing.T) {
	assert.Equal(t, "nil", Humanize(nil).Raw)
}

func TestRender(t *testing.T) {
	out := Humanize(domain.ErrConfigMissing).Render()
	assert.Contains(t, out, "Kunci API Tidak Ditemukan")
	assert.Contains(t, out, MissingKeyWarning)
	assert.Contains(t, out, "Saran:")
	assert.Contains(t, out, "GEMINI_API_KEY")

	plain := FriendlyError{Title: "T"}.Render()
	assert.Equal(t, "T", plain)
}
