package paymentgateway

// CreateOrderRequest — запрос на создание заказа у шлюза.
// Сумма указывается в минимальных денежных единицах.
type CreateOrderRequest struct {
	Amount         int    `json:"amount"`
	Currency       string `json:"currency"`
	Receipt        string `json:"receipt"`
	PaymentCapture int    `json:"payment_capture"`
}

// CreateOrderResponse — ответ шлюза на создание заказа.
type CreateOrderResponse struct {
	ID       string `json:"id"`
	Amount   int    `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}
