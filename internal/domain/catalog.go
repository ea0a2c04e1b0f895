package domain

import "encoding/json"

var catalog = map[AgentID]AgentIdentity{
	AgentPatient: {
		ID:          AgentPatient,
		Name:        "Manajer Pasien",
		RouteLabel:  "Manajer Informasi Pasien",
		Summary:     "Pendaftaran, Janji Temu, Billing",
		Description: "Mengelola pertanyaan terkait pasien, janji temu, dan proses pendaftaran. Dilarang keras menggunakan Google Search untuk data pasien sensitif (PHI/PII), tetapi diizinkan untuk informasi kesehatan umum.",
		Required:    []string{"query"},
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"query": {
					"type": "string",
					"description": "Permintaan lengkap pengguna terkait janji temu, pendaftaran, atau detail pasien."
				}
			},
			"required": ["query"]
		}`),
	},
	AgentMedical: {
		ID:          AgentMedical,
		Name:        "Asisten Medis",
		RouteLabel:  "Asisten Informasi Medis",
		Summary:     "Diagnosis, Riset, Klinis",
		Description: "Menyediakan dukungan untuk pengambilan informasi medis, penelitian, dan bantuan diagnostik. Wajib menggunakan Google Search secara ekstensif untuk pengetahuan medis terkini. Prioritaskan publikasi terbaru dan desain studi spesifik (misalnya, 'uji acak terkendali', 'meta-analisis') jika parameter tanggal atau tipe studi disediakan.",
		Required:    []string{"query"},
		Optional:    []string{"start_date", "end_date", "study_type"},
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"query": {
					"type": "string",
					"description": "Kueri spesifik pengguna tentang informasi medis, diagnosis, atau hasil penelitian."
				},
				"start_date": {
					"type": "string",
					"description": "Tanggal awal rentang waktu pencarian (format: YYYY-MM-DD)."
				},
				"end_date": {
					"type": "string",
					"description": "Tanggal akhir rentang waktu pencarian (format: YYYY-MM-DD)."
				},
				"study_type": {
					"type": "string",
					"description": "Jenis desain studi yang diinginkan (contoh: 'randomized controlled trial', 'meta-analysis', 'systematic review')."
				}
			},
			"required": ["query"]
		}`),
	},
	AgentDocument: {
		ID:          AgentDocument,
		Name:        "Pembuat Dokumen",
		RouteLabel:  "Pembuat Dokumen",
		Summary:     "Laporan, Surat, Formulir",
		Description: "Membuat dan memformat dokumen terstruktur seperti ringkasan pasien, laporan internal, atau formulir dalam format yang diminta (simulasi PDF/DOCX).",
		Required:    []string{"document_type", "content_details"},
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"document_type": {
					"type": "string",
					"description": "Jenis dokumen yang akan dibuat (cth: 'DischargeSummary', 'ConsentForm', 'InternalReport')."
				},
				"content_details": {
					"type": "string",
					"description": "Isi utama atau data yang diperlukan untuk pembuatan dokumen."
				}
			},
			"required": ["document_type", "content_details"]
		}`),
	},
	AgentAdmin: {
		ID:          AgentAdmin,
		Name:        "Admin Operasional",
		RouteLabel:  "Penangan Tugas Admin",
		Summary:     "Kebijakan, Prosedur, Inventaris",
		Description: "Membantu dengan pertanyaan administrasi umum, kebijakan operasional, dan pencarian prosedur rumah sakit.",
		Required:    []string{"query"},
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"query": {
					"type": "string",
					"description": "Pertanyaan pengguna terkait administrasi, kebijakan, atau prosedur non-klinis."
				}
			},
			"required": ["query"]
		}`),
	},
}

// Catalog returns the identities of the four agents in display order.
func Catalog() []AgentIdentity {
	out := make([]AgentIdentity, 0, len(catalog))
	for _, id := range Agents() {
		out = append(out, catalog[id])
	}
	return out
}

// Identity returns the identity of id. ok is false for unknown ids.
func Identity(id AgentID) (AgentIdentity, bool) {
	ident, ok := catalog[id]
	return ident, ok
}

// RouteLabel returns the label shown on a routing decision, falling back to
// the raw id.
func (id AgentID) RouteLabel() string {
	if ident, ok := catalog[id]; ok {
		return ident.RouteLabel
	}
	return string(id)
}
