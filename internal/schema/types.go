package schema

// FieldKind задаёт тип поля в whitelist-е. Значения совпадают со строками
// из YAML-конфигурации.
type FieldKind string

const (
	KindText     FieldKind = "string"
	KindInteger  FieldKind = "int"
	KindFloat    FieldKind = "float"
	KindBoolean  FieldKind = "bool"
	KindUUID     FieldKind = "uuid"
	KindEnum     FieldKind = "enum"
	KindTemporal FieldKind = "datetime"
)

// Ordered reports whether Gt/Gte/Lt/Lte make sense for the kind.
func (k FieldKind) Ordered() bool {
	switch k {
	case KindInteger, KindFloat, KindTemporal:
		return true
	}
	return false
}

// FieldDescriptor описывает одно поле, разрешённое для фильтрации,
// сортировки или полнотекстового поиска. Создаётся один раз при загрузке
// конфигурации и после этого не изменяется.
type FieldDescriptor struct {
	Name              string    `yaml:"name"`
	Kind              FieldKind `yaml:"type"`
	SubstringMatch    bool      `yaml:"substring_match"`     // default no-suffix comparison is substring
	CaseSensitiveEnum bool      `yaml:"case_sensitive_enum"` // enum kind only
	Searchable        bool      `yaml:"searchable"`          // included in free-text search
	Filterable        *bool     `yaml:"filterable"`          // default true
	Sortable          *bool     `yaml:"sortable"`            // default true
	Variants          []string  `yaml:"variants"`            // enum kind only
}

func (f *FieldDescriptor) IsFilterable() bool {
	return f.Filterable == nil || *f.Filterable
}

func (f *FieldDescriptor) IsSortable() bool {
	return f.Sortable == nil || *f.Sortable
}

// Relation описывает связь на один уровень вглубь: relation.column в
// фильтрах и сортировках. Fields — подмножество полей связанной таблицы,
// разрешённое для dot-нотации; всё остальное для запроса не существует.
type Relation struct {
	Name   string             `yaml:"-"`
	Type   string             `yaml:"type"` // has_one, has_many, belongs_to
	Table  string             `yaml:"table"`
	FK     string             `yaml:"fk"`
	PK     string             `yaml:"pk"` // default "id"
	Fields []*FieldDescriptor `yaml:"fields"`

	fieldsByName map[string]*FieldDescriptor
}

// ToMany отмечает связи, join по которым может размножить строки main.
func (r *Relation) ToMany() bool {
	return r.Type == "has_many"
}

func (r *Relation) JoinPK() string {
	if r.PK != "" {
		return r.PK
	}
	return "id"
}

func (r *Relation) Field(name string) *FieldDescriptor {
	if r.fieldsByName != nil {
		return r.fieldsByName[name]
	}
	return findField(r.Fields, name)
}

// Entity — whitelist одной сущности: имя таблицы, первичный ключ и набор
// полей/связей, которым разрешено попадать в условия запроса.
type Entity struct {
	Name       string               `yaml:"-"` // logical name, from the file name
	Table      string               `yaml:"table"`
	PrimaryKey string               `yaml:"primary_key"` // default "id"
	Fields     []*FieldDescriptor   `yaml:"fields"`
	Relations  map[string]*Relation `yaml:"relations"`

	fieldsByName map[string]*FieldDescriptor
}

func (e *Entity) GetPrimaryKey() string {
	if e.PrimaryKey != "" {
		return e.PrimaryKey
	}
	return "id"
}

func (e *Entity) Field(name string) *FieldDescriptor {
	if e.fieldsByName != nil {
		return e.fieldsByName[name]
	}
	return findField(e.Fields, name)
}

// линейный fallback: индексы строятся в InitRegistry, но whitelist,
// собранный руками (тесты), должен работать и без них
func findField(fields []*FieldDescriptor, name string) *FieldDescriptor {
	for _, f := range fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func (e *Entity) GetRelation(name string) *Relation {
	if e == nil || e.Relations == nil {
		return nil
	}
	return e.Relations[name]
}

// SearchColumn — одна колонка, участвующая в полнотекстовом поиске.
// Alias — "main" либо имя связи; обе части берутся из whitelist-а,
// никогда из запроса.
type SearchColumn struct {
	Alias    string
	Column   string
	Relation string // "" для прямых полей
}

// SearchColumns возвращает все searchable-колонки сущности, включая
// колонки связей первого уровня.
func (e *Entity) SearchColumns() []SearchColumn {
	var cols []SearchColumn
	for _, f := range e.Fields {
		if f.Searchable {
			cols = append(cols, SearchColumn{Alias: "main", Column: f.Name})
		}
	}
	for _, relName := range sortedRelationNames(e.Relations) {
		rel := e.Relations[relName]
		for _, f := range rel.Fields {
			if f.Searchable {
				cols = append(cols, SearchColumn{Alias: relName, Column: f.Name, Relation: relName})
			}
		}
	}
	return cols
}

// индексы для O(1) поиска; вызывается из InitRegistry после загрузки
func (e *Entity) buildIndexes() {
	e.fieldsByName = make(map[string]*FieldDescriptor, len(e.Fields))
	for _, f := range e.Fields {
		e.fieldsByName[f.Name] = f
	}
	for name, rel := range e.Relations {
		rel.Name = name
		rel.fieldsByName = make(map[string]*FieldDescriptor, len(rel.Fields))
		for _, f := range rel.Fields {
			rel.fieldsByName[f.Name] = f
		}
	}
}
