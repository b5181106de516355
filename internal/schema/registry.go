package schema

import "fmt"

// Registry — неизменяемый после InitRegistry реестр whitelist-ов.
// Заполняется один раз при старте процесса; дальше только чтение,
// поэтому конкурентный доступ из обработчиков безопасен без блокировок.
var Registry = map[string]*Entity{}

func InitRegistry(dir string) error {
	if err := LoadEntitiesFromDir(dir); err != nil {
		return fmt.Errorf("load error: %w", err)
	}
	if err := ValidateRegistry(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	for _, e := range Registry {
		e.buildIndexes()
	}
	return nil
}
