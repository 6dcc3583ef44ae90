// Утилита печатает JSON-схему конверта плана: удобно вклеивать
// в промпты и сверять с тем, что реально требует разбор.
package main

import (
	"fmt"

	"mindstage-server/pkg/api"
)

func main() {
	fmt.Println(api.PlanSchemaJSON())
}
