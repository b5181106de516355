package filter

import "QrestAPI/internal/schema"

// ticketFixture — whitelist сущности для тестов компилятора: по одному
// полю каждого типа плюс связи belongs_to и has_many.
func ticketFixture() *schema.Entity {
	no := false
	return &schema.Entity{
		Name:       "Ticket",
		Table:      "tickets",
		PrimaryKey: "id",
		Fields: []*schema.FieldDescriptor{
			{Name: "id", Kind: schema.KindInteger},
			{Name: "public_id", Kind: schema.KindUUID},
			{Name: "title", Kind: schema.KindText, SubstringMatch: true, Searchable: true},
			{Name: "reference", Kind: schema.KindText},
			{Name: "status", Kind: schema.KindEnum, Variants: []string{"active", "pending", "closed"}},
			{Name: "severity", Kind: schema.KindEnum, Variants: []string{"Low", "High"}, CaseSensitiveEnum: true},
			{Name: "priority", Kind: schema.KindInteger},
			{Name: "score", Kind: schema.KindFloat},
			{Name: "urgent", Kind: schema.KindBoolean},
			{Name: "created_at", Kind: schema.KindTemporal},
			{Name: "internal_notes", Kind: schema.KindText, Filterable: &no, Sortable: &no},
		},
		Relations: map[string]*schema.Relation{
			"vehicles": {
				Type:  "belongs_to",
				Table: "vehicles",
				FK:    "vehicle_id",
				Fields: []*schema.FieldDescriptor{
					{Name: "make", Kind: schema.KindText, Searchable: true},
					{Name: "plate", Kind: schema.KindText, Sortable: &no},
				},
			},
			"comments": {
				Type:  "has_many",
				Table: "ticket_comments",
				FK:    "ticket_id",
				Fields: []*schema.FieldDescriptor{
					{Name: "author", Kind: schema.KindText},
				},
			},
		},
	}
}
