package schema

import (
	"sort"
	"strings"
)

// ResolveFilter разрешает путь "field" или "relation.column" по whitelist-у
// для фильтрации. Любой промах (неизвестное поле, неизвестная связь, больше
// одной точки, поле с filterable: false) — это ok=false, не ошибка.
func (e *Entity) ResolveFilter(path string) (fd *FieldDescriptor, relation string, ok bool) {
	return e.resolvePath(path, (*FieldDescriptor).IsFilterable)
}

// ResolveSort — то же самое, но по флагу sortable.
func (e *Entity) ResolveSort(path string) (fd *FieldDescriptor, relation string, ok bool) {
	return e.resolvePath(path, (*FieldDescriptor).IsSortable)
}

func (e *Entity) resolvePath(path string, eligible func(*FieldDescriptor) bool) (*FieldDescriptor, string, bool) {
	if strings.Count(path, ".") > 1 {
		return nil, "", false
	}
	if relName, column, found := strings.Cut(path, "."); found {
		rel := e.GetRelation(relName)
		if rel == nil {
			return nil, "", false
		}
		fd := rel.Field(column)
		if fd == nil || !eligible(fd) {
			return nil, "", false
		}
		return fd, relName, true
	}
	fd := e.Field(path)
	if fd == nil || !eligible(fd) {
		return nil, "", false
	}
	return fd, "", true
}

func sortedRelationNames(relations map[string]*Relation) []string {
	names := make([]string, 0, len(relations))
	for name := range relations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
