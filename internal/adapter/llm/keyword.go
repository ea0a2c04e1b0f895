package llm

import (
	"context"
	"strings"

	"koordinator/internal/domain"
)

// ClarificationText is returned by the keyword classifier when no agent
// matches.
const ClarificationText = "Mohon jelaskan lebih spesifik apa yang Anda cari. Permintaan Anda saat ini tidak dapat dirutekan ke agen spesialis."

// keywordRule routes to agent when any of its keywords occurs in the
// lower-cased utterance. Rules are checked in order.
type keywordRule struct {
	agent    domain.AgentID
	keywords []string
}

var keywordRules = []keywordRule{
	{domain.AgentDocument, []string{"buat surat", "buatkan", "dokumen", "laporan", "formulir", "ringkasan", "resume medis", "surat"}},
	{domain.AgentMedical, []string{"gejala", "diagnosis", "diagnosa", "sakit", "nyeri", "demam", "obat", "penelitian", "studi", "klinis", "terapi"}},
	{domain.AgentPatient, []string{"pasien", "janji temu", "daftar", "mendaftar", "pendaftaran", "jadwal dokter", "tagihan", "biaya", "billing", "rekam medis"}},
	{domain.AgentAdmin, []string{"kebijakan", "prosedur", "sop", "jam operasional", "jam buka", "inventaris", "stok", "administrasi", "asuransi", "cuti"}},
}

// KeywordClassifier routes by keyword matching, for demos and tests that run
// without model credentials. It fills the agent's required fields from the
// utterance.
type KeywordClassifier struct{}

var _ domain.Classifier = KeywordClassifier{}

// Name implements domain.Classifier.
func (KeywordClassifier) Name() string { return "keyword" }

// Classify implements domain.Classifier.
func (KeywordClassifier) Classify(ctx context.Context, utterance string) (*domain.ClassifierReply, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	text := strings.TrimSpace(utterance)
	lower := strings.ToLower(text)
	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if !strings.Contains(lower, kw) {
				continue
			}
			return &domain.ClassifierReply{FunctionCalls: []domain.FunctionCall{{
				Name: string(rule.agent),
				Args: keywordArgs(rule.agent, text, kw),
			}}}, nil
		}
	}
	return &domain.ClassifierReply{Text: ClarificationText}, nil
}

func keywordArgs(agent domain.AgentID, text, matched string) domain.Args {
	if agent != domain.AgentDocument {
		return domain.Args{"query": text}
	}
	docType := matched
	switch matched {
	case "buat surat", "buatkan":
		docType = "surat"
	}
	return domain.Args{"document_type": docType, "content_details": text}
}
