package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func no() *bool { v := false; return &v }

func sampleEntity() *Entity {
	return &Entity{
		Name:       "Ticket",
		Table:      "tickets",
		PrimaryKey: "id",
		Fields: []*FieldDescriptor{
			{Name: "id", Kind: KindInteger},
			{Name: "title", Kind: KindText, Searchable: true},
			{Name: "internal_notes", Kind: KindText, Filterable: no(), Sortable: no()},
		},
		Relations: map[string]*Relation{
			"vehicles": {
				Type: "belongs_to", Table: "vehicles", FK: "vehicle_id",
				Fields: []*FieldDescriptor{
					{Name: "make", Kind: KindText, Searchable: true},
					{Name: "plate", Kind: KindText, Sortable: no()},
				},
			},
			"comments": {
				Type: "has_many", Table: "ticket_comments", FK: "ticket_id",
				Fields: []*FieldDescriptor{
					{Name: "author", Kind: KindText, Searchable: true},
				},
			},
		},
	}
}

func TestResolveFilterPaths(t *testing.T) {
	e := sampleEntity()

	fd, rel, ok := e.ResolveFilter("title")
	if !ok || rel != "" || fd.Name != "title" {
		t.Errorf("title: fd=%v rel=%q ok=%v", fd, rel, ok)
	}

	fd, rel, ok = e.ResolveFilter("vehicles.make")
	if !ok || rel != "vehicles" || fd.Name != "make" {
		t.Errorf("vehicles.make: fd=%v rel=%q ok=%v", fd, rel, ok)
	}

	for _, path := range []string{
		"ghost",           // неизвестное поле
		"internal_notes",  // filterable: false
		"ghost.make",      // неизвестная связь
		"vehicles.vin",    // колонка вне whitelist-а связи
		"vehicles.make.x", // глубже одного уровня
		"",                //
	} {
		if _, _, ok := e.ResolveFilter(path); ok {
			t.Errorf("path %q must not resolve", path)
		}
	}
}

func TestResolveSortRespectsSortableFlag(t *testing.T) {
	e := sampleEntity()
	if _, _, ok := e.ResolveSort("internal_notes"); ok {
		t.Error("sortable: false must block sort resolution")
	}
	if _, _, ok := e.ResolveSort("vehicles.plate"); ok {
		t.Error("relation sortable: false must block sort resolution")
	}
	// filterable: false не мешает сортировке сам по себе
	if _, _, ok := e.ResolveFilter("vehicles.plate"); !ok {
		t.Error("plate is still filterable")
	}
}

func TestSearchColumnsOrder(t *testing.T) {
	e := sampleEntity()
	got := e.SearchColumns()
	// сначала прямые поля, затем связи в алфавитном порядке
	want := []SearchColumn{
		{Alias: "main", Column: "title"},
		{Alias: "comments", Column: "author", Relation: "comments"},
		{Alias: "vehicles", Column: "make", Relation: "vehicles"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("search columns mismatch (-want +got):\n%s", diff)
	}
}

func TestEntityDefaults(t *testing.T) {
	e := &Entity{Table: "t"}
	if e.GetPrimaryKey() != "id" {
		t.Errorf("default pk = %q", e.GetPrimaryKey())
	}
	r := &Relation{Type: "has_one", Table: "x", FK: "t_id"}
	if r.JoinPK() != "id" {
		t.Errorf("default relation pk = %q", r.JoinPK())
	}
	if r.ToMany() {
		t.Error("has_one is not to-many")
	}
	if (&Relation{Type: "has_many"}).ToMany() != true {
		t.Error("has_many is to-many")
	}
}
