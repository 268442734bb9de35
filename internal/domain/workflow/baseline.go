package workflow

import (
	"github.com/google/uuid"
)

// Template describes one baseline status
type Template struct {
	Code      string
	Name      string
	Order     int
	IsDefault bool
	IsFinal   bool
}

var shipmentBaseline = []Template{
	{Code: "at_warehouse", Name: "Формируется на складе", Order: 1, IsDefault: true},
	{Code: "document_preparation", Name: "Подготовка документов", Order: 2},
	{Code: "departed", Name: "Вышел со склада", Order: 3},
	{Code: "border_crossing", Name: "Прохождение границы", Order: 4},
	{Code: "customs_clearance", Name: "Таможенная очистка", Order: 5},
	{Code: "on_way_to_customs", Name: "В пути на таможню", Order: 6},
	{Code: "on_way_to_warehouse", Name: "В пути на склад выгрузки", Order: 7},
	{Code: "at_unloading_warehouse", Name: "На складе выгрузки", Order: 8},
	{Code: "done", Name: "Завершен", Order: 9, IsFinal: true},
}

var requestBaseline = []Template{
	{Code: "new", Name: "Новая заявка", Order: 1, IsDefault: true},
	{Code: "expected", Name: "Ожидается на складе", Order: 2},
	{Code: "on_warehouse", Name: "Формируется", Order: 3},
	{Code: "in_progress", Name: "В работе", Order: 4},
	{Code: "ready", Name: "Готово к выдаче", Order: 5},
	{Code: "delivered", Name: "Выдано", Order: 6, IsFinal: true},
}

// Baseline returns the documented default status set for kind
func Baseline(kind Kind) []Template {
	var src []Template
	switch kind {
	case KindShipment:
		src = shipmentBaseline
	case KindRequest:
		src = requestBaseline
	default:
		return nil
	}
	out := make([]Template, len(src))
	copy(out, src)
	return out
}

// BaselineStatuses builds the baseline rows for both kinds of tenantID
func BaselineStatuses(tenantID uuid.UUID) []Status {
	var out []Status
	for _, kind := range []Kind{KindShipment, KindRequest} {
		for _, tpl := range Baseline(kind) {
			s, err := NewStatus(tenantID, kind, tpl.Code, tpl.Name, tpl.Order, tpl.IsFinal)
			if err != nil {
				// baseline templates are static and valid
				panic(err)
			}
			s.IsDefault = tpl.IsDefault
			out = append(out, *s)
		}
	}
	return out
}
