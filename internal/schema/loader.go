package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadEntitiesFromDir загружает все *.yml и *.yaml из каталога. Имя файла
// без расширения становится логическим именем сущности.
func LoadEntitiesFromDir(dir string) error {
	var files []string
	for _, pattern := range []string{"*.yml", "*.yaml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	if len(files) == 0 {
		return fmt.Errorf("no entity definitions (*.yml, *.yaml) found in %s", dir)
	}

	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		// 1. Сначала разбираем в yaml.Node для структурной валидации:
		// незнакомый ключ в whitelist-е — это ошибка конфигурации, а не
		// повод молча проигнорировать поле.
		var root yaml.Node
		if err := yaml.Unmarshal(data, &root); err != nil {
			return fmt.Errorf("YAML parse error in %s: %w", path, err)
		}
		if len(root.Content) == 0 {
			return fmt.Errorf("empty YAML in %s", path)
		}
		if err := validateYAMLNode(root.Content[0], "entity"); err != nil {
			return fmt.Errorf("validation error in %s: %w", path, err)
		}

		// 2. Теперь уже Unmarshal в Entity
		var entity Entity
		if err := root.Decode(&entity); err != nil {
			return fmt.Errorf("unmarshal error in %s: %w", path, err)
		}
		normalizeEntity(&entity)

		// 3. Регистрируем
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		entity.Name = name
		Registry[name] = &entity
	}
	return nil
}

// normalizeEntity приводит синонимы типов к каноническим FieldKind.
func normalizeEntity(e *Entity) {
	for _, f := range e.Fields {
		f.Kind = normalizeKind(f.Kind)
	}
	for _, rel := range e.Relations {
		for _, f := range rel.Fields {
			f.Kind = normalizeKind(f.Kind)
		}
	}
}

func normalizeKind(k FieldKind) FieldKind {
	switch k {
	case "date", "time", "timestamp":
		return KindTemporal
	case "UUID":
		return KindUUID
	case "text":
		return KindText
	}
	return k
}
