package home

import (
	"encoding/json"
	"fmt"
)

type SwiperItem struct {
	BackgroundImage string `json:"background_image"`
	CID             int    `json:"cid"`
	IconURL         string `json:"icon_url"`
	IsPopLogin      int    `json:"is_pop_login"`
	Link            string `json:"link"`
	MeteriaID       string `json:"meteria_id"`
	PublicID        string `json:"public_id"`
	PublicName      string `json:"public_name"`
}

type SwiperResult struct {
	IconList []SwiperItem `json:"icon_list"`
	ShowDark bool         `json:"show_dark"`
	Type     int          `json:"type"`
}

type AdTextResult struct {
	CID        int    `json:"cid"`
	Height     int    `json:"height"`
	ImageURL   string `json:"image_url"`
	IsPopLogin int    `json:"is_pop_login"`
	Link       string `json:"link"`
	PublicID   string `json:"public_id"`
	PublicName string `json:"public_name"`
	ShowDark   bool   `json:"show_dark"`
	Type       int    `json:"type"`
	Width      int    `json:"width"`
}

type CategoryItem struct {
	IconURL string `json:"icon_url"`
	Name    string `json:"name"`
}

type CategoryResult struct {
	BackgroundImage string         `json:"background_image"`
	IconList        []CategoryItem `json:"icon_list"`
	ShowDark        bool           `json:"show_dark"`
	Type            int            `json:"type"`
}

// Product is a sellable item. Prices are decimal strings as sent by the
// backend.
type Product struct {
	ID                         string     `json:"id"`
	ProductName                string     `json:"product_name"`
	Name                       string     `json:"name"`
	OriginPrice                string     `json:"origin_price"`
	Price                      string     `json:"price"`
	VIPPrice                   string     `json:"vip_price"`
	Spec                       string     `json:"spec"`
	SmallImage                 string     `json:"small_image"`
	CategoryID                 string     `json:"category_id"`
	Sizes                      []any      `json:"sizes"`
	TotalSales                 int        `json:"total_sales"`
	MonthSales                 int        `json:"month_sales"`
	BuyLimit                   int        `json:"buy_limit"`
	MarkDiscount               int        `json:"mark_discount"`
	MarkNew                    int        `json:"mark_new"`
	MarkSelf                   int        `json:"mark_self"`
	Status                     int        `json:"status"`
	CategoryPath               string     `json:"category_path"`
	Type                       int        `json:"type"`
	StockoutReserved           bool       `json:"stockout_reserved"`
	IsPromotion                int        `json:"is_promotion"`
	SalePointMsg               [][]string `json:"sale_point_msg"`
	Activity                   []any      `json:"activity"`
	IsPresale                  int        `json:"is_presale"`
	PresaleDeliveryDateDisplay string     `json:"presale_delivery_date_display"`
	IsGift                     int        `json:"is_gift"`
	IsOnion                    int        `json:"is_onion"`
	IsInvoice                  int        `json:"is_invoice"`
	SubList                    []any      `json:"sub_list"`
	BadgeImg                   string     `json:"badge_img"`
	IsVod                      bool       `json:"is_vod"`
	StockNumber                int        `json:"stock_number"`
	TodayStockout              string     `json:"today_stockout"`
	IsBooking                  int        `json:"is_booking"`
}

type FlashSaleLink struct {
	Type int `json:"type"`
	Data struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	} `json:"data"`
}

type FlashSaleProductResult struct {
	Type        int           `json:"type"`
	ShowDark    bool          `json:"show_dark"`
	IsMore      bool          `json:"is_more"`
	Link        FlashSaleLink `json:"link"`
	Status      int           `json:"status"`
	PromotionID string        `json:"promotion_id"`
	SubTitle    string        `json:"sub_title"`
	StartTime   int64         `json:"start_time"`
	EndTime     int64         `json:"end_time"`
}

type HomeAd struct {
	ImageURL string `json:"image_url"`
}

// HomeResult is the payload of the home feed.
type HomeResult struct {
	Notice      map[string]any `json:"notice"`
	HomeAd      HomeAd         `json:"home_ad"`
	SpecialZone map[string]any `json:"special_zone"`
	List        HomeList       `json:"list"`
}

// HomeList is the fixed [swiper, ad text, category] block list of the
// home feed, encoded as a three element JSON array.
type HomeList struct {
	Swiper   SwiperResult
	AdText   AdTextResult
	Category CategoryResult
}

func (l HomeList) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]any{l.Swiper, l.AdText, l.Category})
}

func (l *HomeList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 3 {
		return fmt.Errorf("home: expected 3 list blocks got %d", len(raw))
	}

	if err := json.Unmarshal(raw[0], &l.Swiper); err != nil {
		return fmt.Errorf("home: swiper block: %w", err)
	}
	if err := json.Unmarshal(raw[1], &l.AdText); err != nil {
		return fmt.Errorf("home: ad text block: %w", err)
	}
	if err := json.Unmarshal(raw[2], &l.Category); err != nil {
		return fmt.Errorf("home: category block: %w", err)
	}
	return nil
}
