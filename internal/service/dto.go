package service

// CheckoutRequest is the multi-shop cart submitted at checkout.
type CheckoutRequest struct {
	Cart            []CartLineRequest      `json:"cart" binding:"required,min=1"`
	ShippingAddress ShippingAddressRequest `json:"shippingAddress" binding:"required"`
	User            BuyerRequest           `json:"user" binding:"required"`
	TotalPrice      float64                `json:"totalPrice" binding:"required,min=0"`
	PaymentInfo     PaymentInfoRequest     `json:"paymentInfo"`
}

type CartLineRequest struct {
	ProductID     string  `json:"productId" binding:"required"`
	Name          string  `json:"name"`
	Quantity      int     `json:"quantity" binding:"required"`
	UnitPrice     float64 `json:"unitPrice" binding:"min=0"`
	SelectedSize  string  `json:"selectedSize"`
	SelectedColor string  `json:"selectedColor"`
	ShopID        string  `json:"shopId"`
}

type ShippingAddressRequest struct {
	Address1 string `json:"address1" binding:"required"`
	Address2 string `json:"address2"`
	City     string `json:"city" binding:"required"`
	Country  string `json:"country" binding:"required"`
	ZipCode  string `json:"zipCode" binding:"required"`
}

type BuyerRequest struct {
	ID    string `json:"id" binding:"required"`
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

type PaymentInfoRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Type   string `json:"type"`
}

// UpdateOrderStatusRequest moves an order through the status state
// machine; courier and tracking id are required for Shipping.
type UpdateOrderStatusRequest struct {
	Status     string `json:"status" binding:"required"`
	TrackingID string `json:"trackingId"`
	Courier    string `json:"courier"`
}

// RefundRequest carries the buyer- or seller-supplied target status.
type RefundRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateWithdrawRequest is the seller's payout request.
type CreateWithdrawRequest struct {
	Amount float64 `json:"amount" binding:"required"`
}

// ResolveWithdrawRequest finalizes a withdrawal; status defaults to
// Succeeded when omitted.
type ResolveWithdrawRequest struct {
	SellerID string `json:"sellerId" binding:"required"`
	Status   string `json:"status"`
}

// UpdateWithdrawMethodRequest sets the seller's payout destination.
type UpdateWithdrawMethodRequest struct {
	BankName          string `json:"bankName" binding:"required"`
	BankAccountNumber string `json:"bankAccountNumber" binding:"required"`
	BankHolderName    string `json:"bankHolderName" binding:"required"`
}
