package domain

import (
	"encoding/json"
	"testing"
)

func TestParseAgentID(t *testing.T) {
	tests := []struct {
		name string
		want AgentID
		ok   bool
	}{
		{"manage_patient_info", AgentPatient, true},
		{"assist_medical_info", AgentMedical, true},
		{"generate_document", AgentDocument, true},
		{"handle_admin_task", AgentAdmin, true},
		{"unknown_tool", "", false},
		{"", "", false},
		{"MANAGE_PATIENT_INFO", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAgentID(tt.name)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParseAgentID(%q) = (%q, %v), want (%q, %v)", tt.name, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestCatalogOrderAndContracts(t *testing.T) {
	cat := Catalog()
	if len(cat) != 4 {
		t.Fatalf("catalog size = %d, want 4", len(cat))
	}
	for i, id := range Agents() {
		if cat[i].ID != id {
			t.Errorf("catalog[%d] = %q, want %q", i, cat[i].ID, id)
		}
		if !json.Valid(cat[i].Parameters) {
			t.Errorf("%s: parameters are not valid JSON", id)
		}
	}

	doc, _ := Identity(AgentDocument)
	if len(doc.Required) != 2 || doc.Required[0] != "document_type" || doc.Required[1] != "content_details" {
		t.Errorf("document required = %v", doc.Required)
	}
	med, _ := Identity(AgentMedical)
	if got := med.Fields(); len(got) != 4 || got[0] != "query" {
		t.Errorf("medical fields = %v", got)
	}
}

func TestRequiredFieldsMatchSchema(t *testing.T) {
	for _, ident := range Catalog() {
		var schema struct {
			Required []string `json:"required"`
		}
		if err := json.Unmarshal(ident.Parameters, &schema); err != nil {
			t.Fatalf("%s: %v", ident.ID, err)
		}
		if len(schema.Required) != len(ident.Required) {
			t.Fatalf("%s: schema required %v, identity required %v", ident.ID, schema.Required, ident.Required)
		}
		for i := range schema.Required {
			if schema.Required[i] != ident.Required[i] {
				t.Errorf("%s: required[%d] = %q, want %q", ident.ID, i, ident.Required[i], schema.Required[i])
			}
		}
	}
}

func TestRouteLabelFallback(t *testing.T) {
	if got := AgentPatient.RouteLabel(); got != "Manajer Informasi Pasien" {
		t.Errorf("RouteLabel = %q", got)
	}
	if got := AgentID("other").RouteLabel(); got != "other" {
		t.Errorf("RouteLabel fallback = %q", got)
	}
}

func TestArgsString(t *testing.T) {
	args := Args{"query": "jadwal", "count": 3.0, "nil": nil}

	if s, ok := args.String("query"); !ok || s != "jadwal" {
		t.Errorf("query = (%q, %v)", s, ok)
	}
	if s, ok := args.String("count"); !ok || s != "3" {
		t.Errorf("count = (%q, %v)", s, ok)
	}
	if _, ok := args.String("nil"); ok {
		t.Error("nil value should report missing")
	}
	if _, ok := args.String("absent"); ok {
		t.Error("absent key should report missing")
	}
}

func TestArgsCloneIsDeep(t *testing.T) {
	orig := Args{"nested": map[string]any{"a": "b"}, "list": []any{"x"}}
	cp := orig.Clone()

	orig["nested"].(map[string]any)["a"] = "changed"
	orig["list"].([]any)[0] = "changed"
	orig["new"] = "value"

	if cp["nested"].(map[string]any)["a"] != "b" {
		t.Error("nested map shared with clone")
	}
	if cp["list"].([]any)[0] != "x" {
		t.Error("slice shared with clone")
	}
	if _, ok := cp["new"]; ok {
		t.Error("top-level map shared with clone")
	}
	if Args(nil).Clone() == nil {
		t.Error("clone of nil should be an empty map")
	}
}

func TestEntryCloneDetachesRouting(t *testing.T) {
	args := Args{"query": "a"}
	e := NewRoutingEntry("r1", AgentPatient, args, timeZero)
	args["query"] = "mutated"
	if got, _ := e.Routing.Args.String("query"); got != "a" {
		t.Errorf("routing entry kept caller's map: %q", got)
	}

	cp := e.Clone()
	cp.Routing.Args["query"] = "other"
	if got, _ := e.Routing.Args.String("query"); got != "a" {
		t.Errorf("clone shares args with original: %q", got)
	}
}
