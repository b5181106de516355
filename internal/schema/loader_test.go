package schema

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeEntityFile кладёт YAML-описание сущности во временный каталог.
func writeEntityFile(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".yml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func resetRegistry(t *testing.T) {
	t.Helper()
	Registry = map[string]*Entity{}
	t.Cleanup(func() { Registry = map[string]*Entity{} })
}

const ticketYAML = `
table: tickets
primary_key: id
fields:
  - name: id
    type: int
  - name: title
    type: string
    substring_match: true
    searchable: true
  - name: status
    type: enum
    variants: [active, pending, closed]
  - name: created_at
    type: timestamp
  - name: public_id
    type: UUID
relations:
  vehicles:
    type: belongs_to
    table: vehicles
    fk: vehicle_id
    fields:
      - name: make
        type: text
        searchable: true
`

func TestInitRegistryLoadsAndNormalizes(t *testing.T) {
	resetRegistry(t)
	dir := t.TempDir()
	writeEntityFile(t, dir, "Ticket", ticketYAML)

	if err := InitRegistry(dir); err != nil {
		t.Fatalf("InitRegistry: %v", err)
	}
	entity, ok := Registry["Ticket"]
	if !ok {
		t.Fatal("entity name must come from the file name")
	}
	if entity.Table != "tickets" {
		t.Errorf("table = %q", entity.Table)
	}

	// синонимы типов нормализуются к каноническим kind-ам
	if got := entity.Field("created_at").Kind; got != KindTemporal {
		t.Errorf("timestamp must normalize to %q, got %q", KindTemporal, got)
	}
	if got := entity.Field("public_id").Kind; got != KindUUID {
		t.Errorf("UUID must normalize to %q, got %q", KindUUID, got)
	}
	rel := entity.GetRelation("vehicles")
	if rel == nil {
		t.Fatal("relation vehicles must load")
	}
	if got := rel.Field("make").Kind; got != KindText {
		t.Errorf("text must normalize to %q, got %q", KindText, got)
	}
	if rel.Name != "vehicles" {
		t.Errorf("relation name must be backfilled from the map key, got %q", rel.Name)
	}
}

func TestInitRegistryEmptyDir(t *testing.T) {
	resetRegistry(t)
	if err := InitRegistry(t.TempDir()); err == nil {
		t.Fatal("directory without entity definitions must be an error")
	}
}

func TestInitRegistryAcceptsBothExtensions(t *testing.T) {
	resetRegistry(t)
	dir := t.TempDir()
	writeEntityFile(t, dir, "Ticket", ticketYAML)
	if err := os.WriteFile(filepath.Join(dir, "Vehicle.yaml"), []byte("table: vehicles\nfields:\n  - name: make\n    type: text\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := InitRegistry(dir); err != nil {
		t.Fatalf("InitRegistry: %v", err)
	}
	if _, ok := Registry["Ticket"]; !ok {
		t.Error("*.yml entity must load")
	}
	if _, ok := Registry["Vehicle"]; !ok {
		t.Error("*.yaml entity must load")
	}
}

func TestLoaderRejectsUnknownKeys(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{
			"entity key",
			"table: t\ncolumns: []\n",
			"unknown key 'columns'",
		},
		{
			"field key",
			"table: t\nfields:\n  - name: a\n    type: int\n    hidden: true\n",
			"unknown key 'hidden'",
		},
		{
			"field type",
			"table: t\nfields:\n  - name: a\n    type: varchar\n",
			"unknown type value 'varchar'",
		},
		{
			"relation key",
			"table: t\nrelations:\n  r:\n    type: has_one\n    table: x\n    fk: t_id\n    through: y\n",
			"unknown key 'through'",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resetRegistry(t)
			dir := t.TempDir()
			writeEntityFile(t, dir, "Bad", tc.yaml)
			err := InitRegistry(dir)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want mention of %q", err, tc.want)
			}
		})
	}
}

func TestRegistryValidation(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{
			"missing table",
			"fields:\n  - name: a\n    type: int\n",
			"table is required",
		},
		{
			"duplicate field",
			"table: t\nfields:\n  - name: a\n    type: int\n  - name: a\n    type: int\n",
			"duplicate field",
		},
		{
			"enum without variants",
			"table: t\nfields:\n  - name: a\n    type: enum\n",
			"declares no variants",
		},
		{
			"variants on non-enum",
			"table: t\nfields:\n  - name: a\n    type: int\n    variants: [x]\n",
			"not an enum but declares variants",
		},
		{
			"substring on non-string",
			"table: t\nfields:\n  - name: a\n    type: int\n    substring_match: true\n",
			"substring_match but is not a string",
		},
		{
			"bad relation type",
			"table: t\nrelations:\n  r:\n    type: many_to_many\n    table: x\n    fk: t_id\n",
			"unsupported relation type",
		},
		{
			"relation without fk",
			"table: t\nrelations:\n  r:\n    type: has_one\n    table: x\n",
			"relation fk is required",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resetRegistry(t)
			dir := t.TempDir()
			writeEntityFile(t, dir, "Bad", tc.yaml)
			err := InitRegistry(dir)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want mention of %q", err, tc.want)
			}
		})
	}
}
