package schema

import (
	"fmt"
	"strings"
)

// ValidateRegistry выполняет полную проверку загруженных whitelist-ов:
// дубликаты полей, обязательные атрибуты enum-ов, форма связей.
// Ошибка конфигурации здесь валит старт процесса — лучше упасть сразу,
// чем молча отбрасывать фильтры на каждом запросе.
func ValidateRegistry() error {
	for name, entity := range Registry {
		if strings.TrimSpace(entity.Table) == "" {
			return fmt.Errorf("entity %s: table is required", name)
		}
		if err := validateFields(name, entity.Fields); err != nil {
			return err
		}
		for relName, rel := range entity.Relations {
			if err := validateRelation(name, relName, rel); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateFields(scope string, fields []*FieldDescriptor) error {
	seen := map[string]bool{}
	for _, f := range fields {
		if strings.TrimSpace(f.Name) == "" {
			return fmt.Errorf("%s: field without a name", scope)
		}
		if seen[f.Name] {
			return fmt.Errorf("%s: duplicate field %q", scope, f.Name)
		}
		seen[f.Name] = true

		switch f.Kind {
		case KindText, KindInteger, KindFloat, KindBoolean, KindUUID, KindEnum, KindTemporal:
		case "":
			return fmt.Errorf("%s: field %q has no type", scope, f.Name)
		default:
			return fmt.Errorf("%s: field %q has unknown type %q", scope, f.Name, f.Kind)
		}

		if f.Kind == KindEnum && len(f.Variants) == 0 {
			return fmt.Errorf("%s: enum field %q declares no variants", scope, f.Name)
		}
		if f.Kind != KindEnum && len(f.Variants) > 0 {
			return fmt.Errorf("%s: field %q is not an enum but declares variants", scope, f.Name)
		}
		if f.Kind != KindEnum && f.CaseSensitiveEnum {
			return fmt.Errorf("%s: field %q is not an enum but sets case_sensitive_enum", scope, f.Name)
		}
		if f.SubstringMatch && f.Kind != KindText {
			return fmt.Errorf("%s: field %q sets substring_match but is not a string", scope, f.Name)
		}
	}
	return nil
}

func validateRelation(entityName, relName string, rel *Relation) error {
	scope := entityName + "." + relName
	switch rel.Type {
	case "has_one", "has_many", "belongs_to":
		// ok
	default:
		return fmt.Errorf("%s: unsupported relation type %q (allowed: has_one, has_many, belongs_to)", scope, rel.Type)
	}
	if strings.TrimSpace(rel.Table) == "" {
		return fmt.Errorf("%s: relation table is required", scope)
	}
	if strings.TrimSpace(rel.FK) == "" {
		return fmt.Errorf("%s: relation fk is required", scope)
	}
	return validateFields(scope, rel.Fields)
}
