// Package agent provides the simulated sub-agents. Each one answers with a
// fixed narrative that echoes the arguments it was given.
package agent

import (
	"context"
	"fmt"
	"strings"

	"koordinator/internal/domain"
)

// NotMentioned replaces an argument the classifier did not supply.
const NotMentioned = "(tidak disebutkan)"

// field returns args[key] verbatim, or NotMentioned.
func field(args domain.Args, key string) string {
	if v, ok := args.String(key); ok {
		return v
	}
	return NotMentioned
}

// Patient answers patient registration, appointment and record queries.
type Patient struct{}

func (Patient) Handle(_ context.Context, args domain.Args) (string, error) {
	return fmt.Sprintf("[Sub-Agen Pasien] Saya telah menerima kueri Anda: \"%s\". \n\n"+
		"Memeriksa basis data pasien... \n"+
		"✅ Data ditemukan. Silakan lanjutkan ke loket pendaftaran 3 atau gunakan aplikasi mobile untuk detail janji temu.",
		field(args, "query")), nil
}

// Medical answers clinical and research questions.
type Medical struct{}

func (Medical) Handle(_ context.Context, args domain.Args) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "[Sub-Agen Medis] Menganalisis kueri medis: \"%s\". \n\n", field(args, "query"))

	var filters []string
	for _, f := range []struct{ key, label string }{
		{"start_date", "Dari tanggal"},
		{"end_date", "Sampai tanggal"},
		{"study_type", "Jenis studi"},
	} {
		if v, ok := args.String(f.key); ok {
			filters = append(filters, fmt.Sprintf("- %s: %s", f.label, v))
		}
	}
	if len(filters) > 0 {
		b.WriteString("Filter pencarian literatur:\n")
		b.WriteString(strings.Join(filters, "\n"))
		b.WriteString("\n\n")
	}

	b.WriteString("Berdasarkan protokol klinis terbaru dan pencarian literatur: Gejala yang disebutkan memerlukan pemeriksaan fisik lebih lanjut. \n" +
		"⚠️ Disclaimer: Ini adalah informasi awal, bukan diagnosis resmi dokter.")
	return b.String(), nil
}

// Document drafts medical documents and reports.
type Document struct{}

func (Document) Handle(_ context.Context, args domain.Args) (string, error) {
	return fmt.Sprintf("[Sub-Agen Dokumen] Membuat dokumen tipe: %s. \n\n"+
		"Mengisi konten dengan: \"%s\"... \n"+
		"📄 Dokumen telah dibuat dan siap untuk ditinjau/dicetak.",
		field(args, "document_type"), field(args, "content_details")), nil
}

// Admin answers billing, insurance, policy and scheduling questions.
type Admin struct{}

func (Admin) Handle(_ context.Context, args domain.Args) (string, error) {
	return fmt.Sprintf("[Sub-Agen Admin] Mencari kebijakan terkait: \"%s\". \n\n"+
		"Merujuk pada Bab 4 Prosedur Operasional Standar (SOP). Kebijakan ini berlaku mulai jam 08:00 - 16:00 pada hari kerja.",
		field(args, "query")), nil
}

var (
	_ domain.AgentHandler = Patient{}
	_ domain.AgentHandler = Medical{}
	_ domain.AgentHandler = Document{}
	_ domain.AgentHandler = Admin{}
)

// Simulated returns the handler for every known agent.
func Simulated() map[domain.AgentID]domain.AgentHandler {
	return map[domain.AgentID]domain.AgentHandler{
		domain.AgentPatient:  Patient{},
		domain.AgentMedical:  Medical{},
		domain.AgentDocument: Document{},
		domain.AgentAdmin:    Admin{},
	}
}

// Registrar is satisfied by dispatch.Registry.
type Registrar interface {
	Register(id domain.AgentID, handler domain.AgentHandler) error
}

// RegisterSimulated registers the four simulated handlers in display order.
func RegisterSimulated(r Registrar) error {
	handlers := Simulated()
	for _, id := range domain.Agents() {
		if err := r.Register(id, handlers[id]); err != nil {
			return fmt.Errorf("register %s: %w", id, err)
		}
	}
	return nil
}
