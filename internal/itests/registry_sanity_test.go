package itests

import (
	"testing"

	"QrestAPI/internal/schema"
)

// Мини-проверки загруженных whitelist-ов. Registry уже загружен в
// TestMain — здесь лишь сверяем несколько ключевых свойств.
func Test_Registry_Sanity(t *testing.T) {
	ticket := schema.Registry["Ticket"]
	if ticket == nil {
		t.Fatalf("Ticket entity missing in registry")
	}
	if ticket.Table != "tickets" {
		t.Fatalf("Ticket.table must be tickets, got %q", ticket.Table)
	}

	if f := ticket.Field("status"); f == nil || f.Kind != schema.KindEnum || len(f.Variants) != 3 {
		t.Fatalf("Ticket.status must be an enum with 3 variants, got: %#v", f)
	}
	if f := ticket.Field("created_at"); f == nil || f.Kind != schema.KindTemporal {
		t.Fatalf("Ticket.created_at must normalize to datetime, got: %#v", f)
	}
	if f := ticket.Field("internal_notes"); f == nil || f.IsFilterable() || f.IsSortable() {
		t.Fatalf("Ticket.internal_notes must be excluded from filter/sort, got: %#v", f)
	}

	if rel := ticket.GetRelation("vehicle"); rel == nil || rel.Type != "belongs_to" || rel.FK != "vehicle_id" {
		t.Fatalf("Ticket.vehicle must be belongs_to via vehicle_id, got: %#v", rel)
	}
	if rel := ticket.GetRelation("comments"); rel == nil || !rel.ToMany() {
		t.Fatalf("Ticket.comments must be has_many, got: %#v", rel)
	}

	// searchable-колонки: title напрямую + vehicle.make через связь
	cols := ticket.SearchColumns()
	if len(cols) != 2 {
		t.Fatalf("Ticket search columns: got %#v", cols)
	}
}
