package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// 参照コードの先頭タグ
const orderReferenceTag = "ORD"

// 参照コード衝突時の再生成回数
const maxReferenceAttempts = 3

type OrderUsecase struct {
	tx       repo.TransactionManager
	variants repo.VariantRepository
}

func NewOrderUsecase(tx repo.TransactionManager, variants repo.VariantRepository) *OrderUsecase {
	return &OrderUsecase{tx: tx, variants: variants}
}

type CheckoutInput struct {
	CustomerName  string
	Phone         string
	City          string
	ShippingCost  int64
	ShippingLabel string
}

type OrderLineOutput struct {
	VariantID int64  `json:"variant_id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	Size      string `json:"size"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
}

type OrderOutput struct {
	ID            int64             `json:"id"`
	Reference     string            `json:"reference"`
	Status        string            `json:"status"`
	CustomerName  string            `json:"customer_name"`
	Phone         string            `json:"phone"`
	City          string            `json:"city"`
	ShippingCost  int64             `json:"shipping_cost"`
	ShippingLabel string            `json:"shipping_label"`
	Subtotal      int64             `json:"subtotal"`
	TotalPrice    int64             `json:"total_price"`
	CreatedAt     time.Time         `json:"created_at"`
	Items         []OrderLineOutput `json:"items"`
}

// Checkout はカートを注文に変換する。全行の予約・注文作成・カートクリアは
// 1トランザクション。どこかで失敗したら全部巻き戻る（部分予約は残らない）。
func (u *OrderUsecase) Checkout(ctx context.Context, guestID int64, in CheckoutInput) (OrderOutput, error) {
	if guestID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "no session")
	}
	if strings.TrimSpace(in.CustomerName) == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid customer_name")
	}
	if strings.TrimSpace(in.Phone) == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid phone")
	}
	if strings.TrimSpace(in.City) == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid city")
	}
	if in.ShippingCost < 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid shipping_cost")
	}
	if strings.TrimSpace(in.ShippingLabel) == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid shipping_method")
	}

	var out OrderOutput

	//参照コードの衝突だけはトランザクションごと作り直してリトライする
	for attempt := 0; attempt < maxReferenceAttempts; attempt++ {
		reference := newOrderReference(time.Now())

		err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
			return u.checkoutWithinTx(ctx, r, guestID, in, reference, &out)
		})

		if errors.Is(err, repo.ErrDuplicateReference) {
			continue
		}
		if err != nil {
			return OrderOutput{}, err
		}
		return out, nil
	}

	return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "could not allocate order reference")
}

func (u *OrderUsecase) checkoutWithinTx(
	ctx context.Context,
	r repo.TxRepos,
	guestID int64,
	in CheckoutInput,
	reference string,
	out *OrderOutput,
) error {
	//カート明細取得
	cartLines, err := r.CartLines().ListByGuestID(ctx, guestID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if len(cartLines) == 0 {
		return NewHTTPError(http.StatusBadRequest, "cart empty")
	}

	orderLines := make([]model.OrderLine, 0, len(cartLines))
	var subtotal int64 = 0

	for _, cl := range cartLines {
		//バリアントと商品を取得
		v, err := r.Variants().FindByID(ctx, cl.VariantID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusBadRequest, "invalid")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		p, err := r.Products().FindByID(ctx, v.ProductID)
		if err == repo.ErrNotFound || (err == nil && !p.IsActive) {
			return NewHTTPError(http.StatusBadRequest, "invalid")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//予約（availableが足りなければ false）。チェックと加算は1UPDATE。
		ok, err := r.Variants().ReserveIfAvailable(ctx, cl.VariantID, cl.Quantity)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !ok {
			//どの商品が・いくつ足りなかったかを返す（トランザクションは全部巻き戻る）
			return &InsufficientStockError{
				VariantID:   v.ID,
				ProductName: p.Name,
				Requested:   cl.Quantity,
				Available:   v.Available(),
			}
		}

		//スナップショット（注文時点の販売価格で凍結）
		unitPrice := p.EffectivePrice()
		now := time.Now()
		orderLines = append(orderLines, model.OrderLine{
			VariantID:           cl.VariantID,
			ProductNameSnapshot: p.Name,
			Color:               v.Color,
			Size:                v.Size,
			UnitPriceSnapshot:   unitPrice,
			Quantity:            cl.Quantity,
			CreatedAt:           now,
		})

		subtotal += unitPrice * cl.Quantity
	}

	// 注文作成（pending / 予約中）
	now := time.Now()
	order := model.Order{
		GuestID:       guestID,
		Reference:     reference,
		CustomerName:  strings.TrimSpace(in.CustomerName),
		Phone:         strings.TrimSpace(in.Phone),
		City:          strings.TrimSpace(in.City),
		ShippingCost:  in.ShippingCost,
		ShippingLabel: strings.TrimSpace(in.ShippingLabel),
		Status:        model.OrderStatusPending,
		StockReserved: true,
		StockReduced:  false,
		TotalPrice:    subtotal + in.ShippingCost,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	orderID, err := r.Orders().Create(ctx, order)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateReference) {
			//外側で参照コードを作り直す
			return err
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//注文明細一括作成
	if err := r.OrderLines().CreateBulk(ctx, orderID, orderLines); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//カートをクリア（再注文防止）
	if err := r.CartLines().DeleteByGuestID(ctx, guestID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	order.ID = orderID
	*out = toOrderOutput(order, orderLines)
	return nil
}

// GetByReference は注文確認ページ用の読み取り。
// 見つからなければ404。セッションや行の作成は一切しない。
func (u *OrderUsecase) GetByReference(ctx context.Context, reference string) (OrderOutput, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid reference")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByReference(ctx, reference)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		lines, err := r.OrderLines().ListByOrderID(ctx, o.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(o, lines)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func (u *OrderUsecase) GetByID(ctx context.Context, orderID int64) (OrderOutput, error) {
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		lines, err := r.OrderLines().ListByOrderID(ctx, o.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(o, lines)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// GetAvailableStock は max(0, stock - reserved) を返す純粋な読み取り。
func (u *OrderUsecase) GetAvailableStock(ctx context.Context, variantID int64) (int64, error) {
	if variantID <= 0 {
		return 0, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	v, err := u.variants.FindByID(ctx, variantID)
	if err == repo.ErrNotFound {
		return 0, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return v.Available(), nil
}

func toOrderOutput(o model.Order, lines []model.OrderLine) OrderOutput {
	outLines := make([]OrderLineOutput, 0, len(lines))
	var subtotal int64 = 0

	for _, l := range lines {
		outLines = append(outLines, OrderLineOutput{
			VariantID: l.VariantID,
			Name:      l.ProductNameSnapshot,
			Color:     l.Color,
			Size:      l.Size,
			Price:     l.UnitPriceSnapshot,
			Quantity:  l.Quantity,
		})
		subtotal += l.UnitPriceSnapshot * l.Quantity
	}

	return OrderOutput{
		ID:            o.ID,
		Reference:     o.Reference,
		Status:        string(o.Status),
		CustomerName:  o.CustomerName,
		Phone:         o.Phone,
		City:          o.City,
		ShippingCost:  o.ShippingCost,
		ShippingLabel: o.ShippingLabel,
		Subtotal:      subtotal,
		TotalPrice:    subtotal + o.ShippingCost,
		CreatedAt:     o.CreatedAt,
		Items:         outLines,
	}
}

const referenceAlphabet = "0123456789ABCDEFGHIJKLMNPQRSTUVWXYZ"

// newOrderReference は ORD-<タイムスタンプ下6桁>-<英数4文字> を作る。
// 一意性はDBの制約で担保し、衝突したら作り直す。
func newOrderReference(now time.Time) string {
	ts := now.Unix() % 1000000

	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		//エントロピー枯渇はまず起きないが、落とすほどではない
		for i := range buf {
			buf[i] = byte(now.UnixNano() >> (8 * i))
		}
	}

	suffix := make([]byte, 4)
	for i, b := range buf {
		suffix[i] = referenceAlphabet[int(b)%len(referenceAlphabet)]
	}

	return fmt.Sprintf("%s-%06d-%s", orderReferenceTag, ts, suffix)
}
