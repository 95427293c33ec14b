package http

import (
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/ledger"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/generated/servers"
	"dispatch/internal/pkg/errs"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

func toKernelID(name string, id openapi_types.UUID) (kernel.UUID, error) {
	kid, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsRequiredErrorWithCause(name, err)
	}
	return kid, nil
}

func toAPIID(id kernel.UUID) openapi_types.UUID {
	return id.Bytes()
}

func toAPIIDPtr(id *kernel.UUID) *openapi_types.UUID {
	if id == nil {
		return nil
	}
	v := toAPIID(*id)
	return &v
}

func toAddress(a servers.Address) (order.Address, error) {
	loc, err := kernel.NewLocation(a.Latitude, a.Longitude)
	if err != nil {
		return order.Address{}, err
	}
	return order.NewAddress(a.Address, loc)
}

func fromAddress(line string, loc kernel.Location) servers.Address {
	return servers.Address{
		Address:   line,
		Latitude:  loc.Latitude(),
		Longitude: loc.Longitude(),
	}
}

func toOrder(v queries.OrderView) servers.Order {
	items := make([]servers.OrderItem, 0, len(v.Items))
	for _, item := range v.Items {
		items = append(items, servers.OrderItem{
			FoodId:   toAPIID(item.FoodID),
			Price:    item.UnitPrice.Float64(),
			Quantity: item.Quantity,
			Subtotal: item.Subtotal.Float64(),
		})
	}

	var note *string
	if v.Note != "" {
		n := v.Note
		note = &n
	}

	return servers.Order{
		Id:              toAPIID(v.ID),
		CustomerId:      toAPIID(v.CustomerID),
		StoreId:         toAPIID(v.StoreID),
		ShipperId:       toAPIIDPtr(v.ShipperID),
		DeliveryAddress: fromAddress(v.DeliveryAddress, v.Delivery),
		PickupAddress:   fromAddress(v.PickupAddress, v.Pickup),
		Items:           items,
		TotalAmount:     v.TotalAmount.Float64(),
		ShippingFee:     v.ShippingFee.Float64(),
		PaymentMethod:   v.PaymentMethod,
		Note:            note,
		Status:          v.Status,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
}

func toOrders(views []queries.OrderView) []servers.Order {
	out := make([]servers.Order, 0, len(views))
	for _, v := range views {
		out = append(out, toOrder(v))
	}
	return out
}

func toStatusChanges(views []queries.StatusChangeView) []servers.StatusChange {
	out := make([]servers.StatusChange, 0, len(views))
	for _, v := range views {
		out = append(out, servers.StatusChange{
			From:    v.From,
			To:      v.To,
			ActorId: toAPIID(v.ActorID),
			At:      v.At,
		})
	}
	return out
}

func toChatMessages(orderID kernel.UUID, views []queries.ChatMessageView) []servers.ChatMessage {
	out := make([]servers.ChatMessage, 0, len(views))
	for _, v := range views {
		out = append(out, servers.ChatMessage{
			Id:         toAPIID(v.ID),
			OrderId:    toAPIID(orderID),
			SenderId:   toAPIID(v.SenderID),
			ReceiverId: toAPIID(v.ReceiverID),
			Message:    v.Message,
			IsRead:     v.IsRead,
			CreatedAt:  v.CreatedAt,
		})
	}
	return out
}

func toLedgerEntries(views []queries.LedgerEntryView) []servers.LedgerEntry {
	out := make([]servers.LedgerEntry, 0, len(views))
	for _, v := range views {
		out = append(out, servers.LedgerEntry{
			Id:          toAPIID(v.ID),
			Amount:      v.Amount.Float64(),
			Type:        v.Kind,
			Description: v.Description,
			ReferenceId: toAPIIDPtr(v.ReferenceID),
			CreatedAt:   v.CreatedAt,
		})
	}
	return out
}

func toLedgerEntry(e ledger.Entry) servers.LedgerEntry {
	return servers.LedgerEntry{
		Id:          toAPIID(e.ID()),
		Amount:      e.Amount().Float64(),
		Type:        string(e.Kind()),
		Description: e.Description(),
		ReferenceId: toAPIIDPtr(e.ReferenceID()),
		CreatedAt:   e.CreatedAt(),
	}
}

func toPeriodTotals(p queries.PeriodTotals) servers.PeriodTotals {
	return servers.PeriodTotals{
		Total: p.Total.Float64(),
		Today: p.Today.Float64(),
		Week:  p.Week.Float64(),
		Month: p.Month.Float64(),
	}
}

func toShipperEarnings(e queries.CourierEarnings) servers.ShipperEarnings {
	history := make([]servers.Earning, 0, len(e.History))
	for _, v := range e.History {
		history = append(history, servers.Earning{
			OrderId:     toAPIID(v.OrderID),
			Amount:      v.Amount.Float64(),
			ShippingFee: v.ShippingFee.Float64(),
			Date:        v.Date,
		})
	}
	return servers.ShipperEarnings{
		TotalEarnings: e.Total.Float64(),
		TodayEarnings: e.Today.Float64(),
		WeekEarnings:  e.Week.Float64(),
		MonthEarnings: e.Month.Float64(),
		History:       history,
	}
}

func toPlatformRevenue(r queries.PlatformRevenue) servers.PlatformRevenue {
	history := make([]servers.Revenue, 0, len(r.History))
	for _, v := range r.History {
		history = append(history, servers.Revenue{
			OrderId:         toAPIID(v.OrderID),
			Date:            v.Date,
			TotalAmount:     v.TotalAmount.Float64(),
			ShippingFee:     v.ShippingFee.Float64(),
			ItemRevenue:     v.ItemRevenue.Float64(),
			ShippingRevenue: v.ShippingRevenue.Float64(),
		})
	}
	return servers.PlatformRevenue{
		Items:    toPeriodTotals(r.Items),
		Shipping: toPeriodTotals(r.Shipping),
		History:  history,
	}
}
