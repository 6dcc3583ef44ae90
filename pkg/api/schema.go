package api

import (
	"encoding/json"
	"sync"

	"github.com/invopop/jsonschema"

	"mindstage-server/internal/domain"
)

// JSON-схема планового конверта, отраженная из доменного типа.
// Вставляется в промпты планирования и в корректирующие сообщения:
// агент видит ровно ту схему, по которой его ответ будут валидировать.

var (
	planSchemaOnce sync.Once
	planSchemaJSON string
)

// PlanSchemaJSON возвращает компактную JSON-схему PlanEnvelope.
func PlanSchemaJSON() string {
	planSchemaOnce.Do(func() {
		reflector := jsonschema.Reflector{
			DoNotReference: true,
			Anonymous:      true,
		}
		schema := reflector.Reflect(&domain.PlanEnvelope{})
		schema.Version = "" // компактнее в промпте
		data, err := json.Marshal(schema)
		if err != nil {
			// Reflect над статически известным типом; ошибка тут - баг сборки.
			panic(err)
		}
		planSchemaJSON = string(data)
	})
	return planSchemaJSON
}
