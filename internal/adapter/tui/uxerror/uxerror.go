// Package uxerror translates raw errors into user-facing messages with
// recovery hints for the TUI.
package uxerror

import (
	"errors"
	"fmt"
	"strings"

	"koordinator/internal/adapter/tui/theme"
	"koordinator/internal/domain"
)

// MissingKeyWarning is shown while no classifier credentials are configured.
const MissingKeyWarning = "Peringatan: API_KEY tidak terdeteksi. Aplikasi ini memerlukan kunci API Gemini."

// FriendlyError is a user-facing error with suggestions for recovery.
type FriendlyError struct {
	Title   string
	Message string
	Hints   []string
	Raw     string
}

// Render formats the FriendlyError for display in the TUI.
func (fe FriendlyError) Render() string {
	var sb strings.Builder
	sb.WriteString(fe.Title)
	if fe.Message != "" {
		sb.WriteString("\n  ")
		sb.WriteString(fe.Message)
	}
	if len(fe.Hints) > 0 {
		sb.WriteString("\n  Saran:")
		for _, h := range fe.Hints {
			sb.WriteString(fmt.Sprintf("\n    %s %s", theme.SymbolBullet, h))
		}
	}
	return sb.String()
}

type errorPattern struct {
	match   func(err error) bool
	produce func(err error) FriendlyError
}

var patterns = []errorPattern{
	{
		match:   is(domain.ErrEmptyInput),
		produce: constantError("Permintaan Kosong", "Ketik permintaan sebelum mengirim.", nil),
	},
	{
		match:   is(domain.ErrBusy),
		produce: constantError("Permintaan Sedang Diproses", "Tunggu hingga permintaan sebelumnya selesai.", nil),
	},
	{
		match: is(domain.ErrConfigMissing),
		produce: constantError("Kunci API Tidak Ditemukan", MissingKeyWarning, []string{
			"Setel variabel lingkungan GEMINI_API_KEY atau API_KEY",
			"Gunakan --provider keyword untuk mode tanpa jaringan",
		}),
	},
	{
		match: is(domain.ErrAuthInvalid),
		produce: constantError("Autentikasi Gagal", "Kunci API ditolak oleh layanan.", []string{
			"Periksa kembali kunci API Gemini Anda",
		}),
	},
	{
		match: anyOf(is(domain.ErrRateLimit), is(domain.ErrCircuitOpen)),
		produce: constantError("Layanan Sibuk", "Terlalu banyak permintaan ke layanan klasifikasi.", []string{
			"Tunggu sebentar sebelum mencoba lagi",
		}),
	},
	{
		match: is(domain.ErrTimeout),
		produce: constantError("Waktu Habis", "Layanan klasifikasi tidak merespons tepat waktu.", []string{
			"Periksa koneksi jaringan Anda",
			"Naikkan coordinator.classify_timeout di konfigurasi",
		}),
	},
	{
		match:   containsAny("connection refused", "dial tcp", "no such host"),
		produce: constantError("Koneksi Gagal", "Tidak dapat menghubungi layanan.", []string{"Periksa koneksi internet Anda"}),
	},
}

// Humanize converts a raw error into a FriendlyError with recovery hints.
func Humanize(err error) FriendlyError {
	if err == nil {
		return FriendlyError{Title: "Kesalahan Tidak Dikenal", Raw: "nil"}
	}
	for _, p := range patterns {
		if p.match(err) {
			return p.produce(err)
		}
	}
	return FriendlyError{
		Title:   "Kesalahan Tak Terduga",
		Message: err.Error(),
		Raw:     err.Error(),
	}
}

func is(target error) func(error) bool {
	return func(err error) bool { return errors.Is(err, target) }
}

func anyOf(fns ...func(error) bool) func(error) bool {
	return func(err error) bool {
		for _, fn := range fns {
			if fn(err) {
				return true
			}
		}
		return false
	}
}

// containsAny returns a match func that checks if the error string contains
// any of the given substrings (case-insensitive).
func containsAny(substrs ...string) func(error) bool {
	return func(err error) bool {
		lower := strings.ToLower(err.Error())
		for _, s := range substrs {
			if strings.Contains(lower, s) {
				return true
			}
		}
		return false
	}
}

func constantError(title, message string, hints []string) func(error) FriendlyError {
	return func(err error) FriendlyError {
		return FriendlyError{
			Title:   title,
			Message: message,
			Hints:   hints,
			Raw:     err.Error(),
		}
	}
}
