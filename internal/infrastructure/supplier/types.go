package supplier

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// envelope is the supplier's uniform response wrapper
type envelope struct {
	Code    int             `json:"code"`
	Result  bool            `json:"result"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// ok reports whether the envelope carries a success code
func (e *envelope) ok() bool {
	return e.Code == 0 || e.Code == 200
}

// flexString accepts a JSON string or number, preserving the raw text.
// Supplier feeds flip between the two encodings for prices and weights.
type flexString string

// UnmarshalJSON implements json.Unmarshaler
func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(string(data))
	return nil
}

// Int parses the value as an integer, truncating decimals; 0 on failure
func (f flexString) Int() int {
	s := strings.TrimSpace(string(f))
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return int(v)
	}
	return 0
}

// String returns the raw text
func (f flexString) String() string {
	return string(f)
}

// deliveryDays extracts the upper bound of a delivery estimate such as
// "5", "3-5" or "3~5 days"; 0 when the text carries no number
func deliveryDays(s string) int {
	max, cur := 0, 0
	inNumber := false
	for _, r := range s {
		if r >= '0' && r <= '9' {
			cur = cur*10 + int(r-'0')
			inNumber = true
			continue
		}
		if inNumber && cur > max {
			max = cur
		}
		cur, inNumber = 0, false
	}
	if inNumber && cur > max {
		max = cur
	}
	return max
}

// authData is the payload of the token endpoint
type authData struct {
	AccessToken            string `json:"accessToken"`
	AccessTokenExpiryDate  string `json:"accessTokenExpiryDate"`
	RefreshToken           string `json:"refreshToken"`
	RefreshTokenExpiryDate string `json:"refreshTokenExpiryDate"`
}

// wireVariant is a supplier variant on the wire
type wireVariant struct {
	VID       string     `json:"vid"`
	Name      flexString `json:"variantNameEn"`
	SellPrice flexString `json:"variantSellPrice"`
	Image     string     `json:"variantImage"`
	Weight    flexString `json:"variantWeight"`
	Stock     flexString `json:"variantStock"`
}

// wireProduct is a supplier product on the wire. ProductImageSet may be
// a bare URL, a JSON array, or a JSON array serialized inside a string.
type wireProduct struct {
	PID          string     `json:"pid"`
	Name         flexString `json:"productNameEn"`
	SellPrice    flexString `json:"sellPrice"`
	Weight       flexString `json:"productWeight"`
	CategoryName string     `json:"categoryName"`
	Image        string     `json:"productImage"`
	ImageSet     ImageField `json:"productImageSet"`
	Description  string     `json:"description"`
	SourceFrom   flexString `json:"sourceFrom"`
	DeliveryTime flexString `json:"deliveryTime"`
	Variants     []wireVariant `json:"variants"`
}

// wireProductList is one page of the product list
type wireProductList struct {
	List     []wireProduct `json:"list"`
	PageNum  int           `json:"pageNum"`
	PageSize int           `json:"pageSize"`
	Total    int64         `json:"total"`
}

// wireFreightOption is one logistic channel in a freight quote
type wireFreightOption struct {
	LogisticName  string     `json:"logisticName"`
	LogisticPrice flexString `json:"logisticPrice"`
	LogisticAging string     `json:"logisticAging"`
}

// wireStockEntry is a per-warehouse stock record
type wireStockEntry struct {
	VID         string     `json:"vid"`
	CountryCode string     `json:"countryCode"`
	StorageNum  flexString `json:"storageNum"`
}

// wireReview is one buyer review
type wireReview struct {
	CommentID   string     `json:"commentId"`
	Comment     string     `json:"comment"`
	Score       flexString `json:"score"`
	Images      []string   `json:"commentUrls"`
	CommentDate string     `json:"commentDate"`
}

// wireReviewList is one page of reviews
type wireReviewList struct {
	List []wireReview `json:"list"`
}

// wireOrderResult acknowledges a created order
type wireOrderResult struct {
	OrderID     string     `json:"orderId"`
	OrderAmount flexString `json:"orderAmount"`
}

// wireTrackEvent is one scan event in tracking data
type wireTrackEvent struct {
	Description string `json:"trackingDescription"`
	Date        string `json:"trackingDate"`
}

// wireTracking is the shipment status payload
type wireTracking struct {
	TrackingNumber string           `json:"trackingNumber"`
	Carrier        string           `json:"logisticName"`
	Status         string           `json:"trackingStatus"`
	Events         []wireTrackEvent `json:"trackingList"`
}
