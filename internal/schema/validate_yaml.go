package schema

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Разрешённые ключи для объектов
var allowedEntityKeys = map[string]bool{
	"table":       true,
	"primary_key": true,
	"fields":      true,
	"relations":   true,
}

var allowedRelationKeys = map[string]bool{
	"type":   true,
	"table":  true,
	"fk":     true,
	"pk":     true,
	"fields": true,
}

var allowedFieldKeys = map[string]bool{
	"name":                true,
	"type":                true,
	"substring_match":     true,
	"case_sensitive_enum": true,
	"searchable":          true,
	"filterable":          true,
	"sortable":            true,
	"variants":            true,
}

// Разрешённые значения для type в полях (включая синонимы, см. normalizeKind)
var allowedFieldTypeValues = map[string]bool{
	"string":    true,
	"text":      true,
	"int":       true,
	"float":     true,
	"bool":      true,
	"uuid":      true,
	"UUID":      true,
	"enum":      true,
	"datetime":  true,
	"date":      true,
	"time":      true,
	"timestamp": true,
}

func validateYAMLNode(node *yaml.Node, context string) error {
	switch node.Kind {
	case yaml.DocumentNode:
		for _, child := range node.Content {
			if err := validateYAMLNode(child, "entity"); err != nil {
				return err
			}
		}

	case yaml.MappingNode:
		var allowedKeys map[string]bool
		switch context {
		case "entity":
			allowedKeys = allowedEntityKeys
		case "relation":
			allowedKeys = allowedRelationKeys
		case "field":
			allowedKeys = allowedFieldKeys
		default:
			allowedKeys = nil // свободная форма
		}

		for i := 0; i < len(node.Content); i += 2 {
			keyNode := node.Content[i]
			valNode := node.Content[i+1]
			key := keyNode.Value

			if allowedKeys != nil && !allowedKeys[key] {
				return fmt.Errorf("unknown key '%s' in %s", key, context)
			}

			if context == "field" && key == "type" {
				if !allowedFieldTypeValues[valNode.Value] {
					return fmt.Errorf("unknown type value '%s' in field", valNode.Value)
				}
			}

			// Определяем новый контекст
			nextContext := context
			switch {
			case context == "entity" && key == "relations":
				nextContext = "relations-map"
			case context == "relations-map":
				nextContext = "relation"
			case (context == "entity" || context == "relation") && key == "fields":
				nextContext = "fields-seq"
			}

			if err := validateYAMLNode(valNode, nextContext); err != nil {
				return err
			}
		}

	case yaml.SequenceNode:
		if context == "fields-seq" {
			for _, item := range node.Content {
				if err := validateYAMLNode(item, "field"); err != nil {
					return err
				}
			}
		} else {
			for _, item := range node.Content {
				if err := validateYAMLNode(item, context); err != nil {
					return err
				}
			}
		}

	case yaml.ScalarNode:
		// скаляры проверяются на уровне MappingNode
	}

	return nil
}
