package realtime

import "time"

// Emitter translates domain changes into named events on the right rooms.
// It works over any Publisher so services can be tested with a recording fake.
type Emitter struct {
	pub Publisher
}

// NewEmitter creates an Emitter over the given publisher.
func NewEmitter(pub Publisher) *Emitter {
	return &Emitter{pub: pub}
}

// CartUpdated pushes the full post-mutation summary to the owner's sessions.
func (e *Emitter) CartUpdated(userID string, summary interface{}) {
	e.pub.Publish(CartRoom(userID), "cart:updated", summary)
}

// CartItemAdded pushes the added line to the owner's sessions.
func (e *Emitter) CartItemAdded(userID string, item interface{}) {
	e.pub.Publish(CartRoom(userID), "cart:item-added", map[string]interface{}{"item": item})
}

// CartItemRemoved names the removed line by ID.
func (e *Emitter) CartItemRemoved(userID, itemID string) {
	e.pub.Publish(CartRoom(userID), "cart:item-removed", map[string]string{"itemId": itemID})
}

// CartCleared signals a full cart wipe.
func (e *Emitter) CartCleared(userID string) {
	e.pub.Publish(CartRoom(userID), "cart:cleared", nil)
}

// WishlistItemAdded pushes the added entry.
func (e *Emitter) WishlistItemAdded(userID string, item interface{}) {
	e.pub.Publish(WishlistRoom(userID), "wishlist:item-added", map[string]interface{}{"item": item})
}

// WishlistItemRemoved names the removed entry by ID.
func (e *Emitter) WishlistItemRemoved(userID, itemID string) {
	e.pub.Publish(WishlistRoom(userID), "wishlist:item-removed", map[string]string{"itemId": itemID})
}

// OrderCreated pushes the new order to the owner's order sessions.
func (e *Emitter) OrderCreated(userID string, order interface{}) {
	e.pub.Publish(OrdersRoom(userID), "order:created", map[string]interface{}{"order": order})
}

// OrderStatusUpdated pushes a fulfillment transition.
func (e *Emitter) OrderStatusUpdated(userID, orderID, status, trackingNumber string) {
	data := map[string]string{"orderId": orderID, "status": status}
	if trackingNumber != "" {
		data["trackingNumber"] = trackingNumber
	}
	e.pub.Publish(OrdersRoom(userID), "order:status-updated", data)
}

// PaymentStatusUpdated pushes a payment transition.
func (e *Emitter) PaymentStatusUpdated(userID, orderID, paymentStatus, paymentID string) {
	data := map[string]string{"orderId": orderID, "paymentStatus": paymentStatus}
	if paymentID != "" {
		data["paymentId"] = paymentID
	}
	e.pub.Publish(OrdersRoom(userID), "payment:status-updated", data)
}

// ProductUpdated pushes a generic change notice to a product's subscribers.
func (e *Emitter) ProductUpdated(productID, updateType string, data interface{}) {
	e.pub.Publish(ProductRoom(productID), "product:updated", map[string]interface{}{
		"productId":  productID,
		"updateType": updateType,
		"data":       data,
	})
}

// ProductStockUpdated pushes the new stock level to a product's subscribers.
func (e *Emitter) ProductStockUpdated(productID string, newStock int) {
	e.pub.Publish(ProductRoom(productID), "product:stock-updated", map[string]interface{}{
		"productId": productID,
		"newStock":  newStock,
	})
}

// ProductPriceUpdated pushes the new price to a product's subscribers.
func (e *Emitter) ProductPriceUpdated(productID string, newPrice float64, formattedPrice string) {
	e.pub.Publish(ProductRoom(productID), "product:price-updated", map[string]interface{}{
		"productId":      productID,
		"newPrice":       newPrice,
		"formattedPrice": formattedPrice,
	})
}

// Notification pushes an arbitrary payload to a user's personal room.
func (e *Emitter) Notification(userID string, payload interface{}) {
	e.pub.Publish(UserRoom(userID), "notification", payload)
}

// SystemMaintenance broadcasts a maintenance notice to every session.
func (e *Emitter) SystemMaintenance(message string, scheduledTime *time.Time) {
	data := map[string]interface{}{"message": message}
	if scheduledTime != nil {
		data["scheduledTime"] = scheduledTime.UTC().Format(time.RFC3339)
	}
	e.pub.Publish(RoomAllUsers, "system:maintenance", data)
}

// PromotionNew broadcasts a promotion to authenticated sessions.
func (e *Emitter) PromotionNew(promotion interface{}) {
	e.pub.Publish(RoomAuthenticated, "promotion:new", map[string]interface{}{"promotion": promotion})
}
