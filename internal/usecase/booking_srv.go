package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"event-ticketing/internal/data/entity"
	"event-ticketing/internal/data/repository"
	"event-ticketing/internal/dto/request"
	"event-ticketing/internal/dto/response"
	"event-ticketing/internal/events"
	"event-ticketing/internal/gateway"
	"event-ticketing/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentProof adalah bukti settlement per method: closed union, dispatch
// lewat satu entry point VerifyPayment.
type PaymentProof interface {
	isPaymentProof()
}

type RazorpayProof struct {
	OrderID   string
	PaymentID string
	Signature string
}

type StripeProof struct {
	SessionID string
}

type WalletProof struct{}

func (RazorpayProof) isPaymentProof() {}
func (StripeProof) isPaymentProof()   {}
func (WalletProof) isPaymentProof()   {}

type BookingService interface {
	// Booking lifecycle
	CreateBooking(ctx context.Context, userID string, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	GetBookingByOrderID(ctx context.Context, orderID string) (*response.BookingResponse, error)
	GetUserBookings(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	CancelBooking(ctx context.Context, userID, bookingID string) error
	CancelEventBookings(ctx context.Context, eventID string) (int, error)

	// Payment settlement
	InitiateRazorpayOrder(ctx context.Context, userID, bookingID string) (*response.PaymentInitResponse, error)
	InitiateStripeCheckout(ctx context.Context, userID, bookingID string) (*response.PaymentInitResponse, error)
	VerifyPayment(ctx context.Context, bookingID string, proof PaymentProof) (*response.PaymentRecordResponse, error)

	// Reporting (read-side)
	EventRevenue(ctx context.Context, eventID string) (*response.RevenueResponse, error)
}

type bookingService struct {
	repo      *repository.Repository
	razorpay  gateway.RazorpayGateway
	stripe    gateway.StripeGateway
	publisher events.Publisher
	currency  string
	log       *zap.Logger
}

func NewBookingService(
	repo *repository.Repository,
	razorpay gateway.RazorpayGateway,
	stripe gateway.StripeGateway,
	publisher events.Publisher,
	currency string,
	log *zap.Logger,
) BookingService {
	return &bookingService{
		repo:      repo,
		razorpay:  razorpay,
		stripe:    stripe,
		publisher: publisher,
		currency:  currency,
		log:       log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, userID string, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	// Validate request
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID format %s: %w", req.EventID, err)
	}

	event, err := s.repo.Event.FindByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event == nil {
		return nil, fmt.Errorf("event %s not found", req.EventID)
	}
	if event.Status != entity.EventStatusPublished {
		return nil, fmt.Errorf("cannot book event with status %s", event.Status)
	}
	if event.StartsAt.Before(time.Now()) {
		return nil, fmt.Errorf("cannot book for past event")
	}

	// Coupon check: existence query saja, satu pasangan (user, coupon)
	// cuma boleh menghasilkan satu booking
	if req.CouponCode != nil && *req.CouponCode != "" {
		used, err := s.repo.Booking.ExistsByUserAndCoupon(ctx, userUUID, *req.CouponCode)
		if err != nil {
			return nil, fmt.Errorf("check coupon: %w", err)
		}
		if used {
			return nil, fmt.Errorf("coupon %s already used", *req.CouponCode)
		}
	}

	// Harga selalu dari ticket type di store, bukan dari client
	now := time.Now()
	bookingID := uuid.New()
	items := make([]*entity.BookingItem, len(req.Items))
	totalAmount := 0.0
	for i, itemReq := range req.Items {
		ticketTypeID, err := uuid.Parse(itemReq.TicketTypeID)
		if err != nil {
			return nil, fmt.Errorf("invalid ticket type ID format %s: %w", itemReq.TicketTypeID, err)
		}

		ticketType, err := s.repo.Inventory.FindTicketType(ctx, eventID, ticketTypeID)
		if err != nil {
			return nil, fmt.Errorf("get ticket type: %w", err)
		}
		if ticketType == nil {
			return nil, fmt.Errorf("ticket type %s not found", itemReq.TicketTypeID)
		}

		// Advisory pre-check saja; kebenaran final ada di Reserve
		available, err := s.repo.Inventory.CheckAvailable(ctx, eventID, ticketTypeID, itemReq.Quantity)
		if err != nil {
			return nil, fmt.Errorf("check availability: %w", err)
		}
		if !available {
			return nil, fmt.Errorf("%s: %w", ticketType.Name, ErrInsufficientStock)
		}

		items[i] = &entity.BookingItem{
			BaseSimple: entity.BaseSimple{
				ID:        uuid.New(),
				CreatedAt: now,
			},
			BookingID:    bookingID,
			TicketTypeID: ticketTypeID,
			Name:         ticketType.Name,
			Quantity:     itemReq.Quantity,
			UnitPrice:    ticketType.Price,
		}
		totalAmount += float64(itemReq.Quantity) * ticketType.Price
	}

	booking := &entity.Booking{
		Base: entity.Base{
			ID:        bookingID,
			CreatedAt: now,
			UpdatedAt: now,
		},
		OrderID:       utils.GenerateOrderID(),
		UserID:        userUUID,
		EventID:       eventID,
		TotalAmount:   totalAmount,
		PaymentMethod: entity.PaymentMethod(req.PaymentMethod),
		Status:        entity.BookingStatusPending,
		CouponCode:    req.CouponCode,
		Items:         items,
	}

	// Wallet = settlement sinkron: reserve stok dulu (all-or-nothing),
	// debit, dan booking langsung paid. Method gateway dibuat pending tanpa
	// reservasi — stok baru di-commit saat verifikasi supaya cart yang
	// ditinggal tidak menyandera stok.
	if booking.PaymentMethod == entity.PaymentMethodWallet {
		if err := s.settleWalletBooking(ctx, booking); err != nil {
			return nil, err
		}
	} else {
		if err := s.repo.Booking.Create(ctx, booking); err != nil {
			s.log.Error("Failed to create booking",
				zap.Error(err),
				zap.String("user_id", userID),
				zap.String("event_id", req.EventID),
			)
			return nil, fmt.Errorf("create booking: %w", err)
		}
		s.publish(ctx, events.BookingCreated, booking)
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("order_id", booking.OrderID),
		zap.String("user_id", userID),
		zap.String("payment_method", string(booking.PaymentMethod)),
		zap.String("status", string(booking.Status)),
		zap.Float64("total_amount", totalAmount),
	)

	payment, _ := s.repo.Payment.FindByBookingID(ctx, booking.ID)
	resp := response.BookingToResponse(booking, items, payment)
	return &resp, nil
}

// settleWalletBooking: reserve semua line item, debit wallet, simpan booking
// paid + payment record success. Tiap langkah gagal dikompensasi mundur.
func (s *bookingService) settleWalletBooking(ctx context.Context, booking *entity.Booking) error {
	reserved, err := s.reserveItems(ctx, booking.EventID, booking.Items)
	if err != nil {
		s.releaseItems(ctx, booking.EventID, reserved)
		return err
	}

	walletTx, err := s.repo.Wallet.Debit(ctx, booking.UserID, booking.TotalAmount,
		fmt.Sprintf("Payment for order %s", booking.OrderID))
	if err != nil {
		s.releaseItems(ctx, booking.EventID, booking.Items)
		return fmt.Errorf("debit wallet: %w", err)
	}
	if walletTx == nil {
		s.releaseItems(ctx, booking.EventID, booking.Items)
		return ErrInsufficientBalance
	}

	booking.Status = entity.BookingStatusPaid
	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		// Uang sudah terpotong: kembalikan dulu, baru lepas stok
		if _, cerr := s.repo.Wallet.Credit(ctx, booking.UserID, booking.TotalAmount,
			entity.TransactionTypeRefund, fmt.Sprintf("Reversal for order %s", booking.OrderID)); cerr != nil {
			s.log.Error("Failed to reverse wallet debit after booking create failure",
				zap.Error(cerr),
				zap.String("order_id", booking.OrderID),
			)
		}
		s.releaseItems(ctx, booking.EventID, booking.Items)
		return fmt.Errorf("create booking: %w", err)
	}

	txID := walletTx.ID.String()
	now := time.Now()
	if _, err := s.repo.Payment.Upsert(ctx, &entity.PaymentRecord{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		BookingID:         booking.ID,
		UserID:            booking.UserID,
		EventID:           booking.EventID,
		Method:            entity.PaymentMethodWallet,
		Amount:            booking.TotalAmount,
		Currency:          s.currency,
		ExternalPaymentID: &txID,
		Status:            entity.PaymentStatusSuccess,
	}); err != nil {
		// Booking sudah paid dan uang sudah pindah; record menyusul via
		// retry, jangan rollback
		s.log.Error("Failed to upsert payment record for wallet booking",
			zap.Error(err),
			zap.String("order_id", booking.OrderID),
		)
	}

	s.publish(ctx, events.BookingPaid, booking)
	return nil
}

func (s *bookingService) InitiateRazorpayOrder(ctx context.Context, userID, bookingID string) (*response.PaymentInitResponse, error) {
	booking, err := s.loadPendingBooking(ctx, userID, bookingID, entity.PaymentMethodRazorpay)
	if err != nil {
		return nil, err
	}

	order, err := s.razorpay.CreateOrder(ctx, booking.TotalAmount, s.currency, booking.OrderID)
	if err != nil {
		return nil, fmt.Errorf("initiate razorpay order for booking %s: %w", bookingID, err)
	}

	now := time.Now()
	if _, err := s.repo.Payment.Upsert(ctx, &entity.PaymentRecord{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		BookingID:       booking.ID,
		UserID:          booking.UserID,
		EventID:         booking.EventID,
		Method:          entity.PaymentMethodRazorpay,
		Amount:          booking.TotalAmount,
		Currency:        s.currency,
		ExternalOrderID: &order.OrderID,
		Status:          entity.PaymentStatusPending,
	}); err != nil {
		return nil, fmt.Errorf("record razorpay order for booking %s: %w", bookingID, err)
	}

	return &response.PaymentInitResponse{
		BookingID: booking.ID.String(),
		OrderID:   order.OrderID,
		Amount:    booking.TotalAmount,
		Currency:  s.currency,
	}, nil
}

func (s *bookingService) InitiateStripeCheckout(ctx context.Context, userID, bookingID string) (*response.PaymentInitResponse, error) {
	booking, err := s.loadPendingBooking(ctx, userID, bookingID, entity.PaymentMethodStripe)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.Booking.Items(ctx, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("get booking items: %w", err)
	}

	checkoutItems := make([]gateway.CheckoutItem, len(items))
	for i, item := range items {
		checkoutItems[i] = gateway.CheckoutItem{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	session, err := s.stripe.CreateCheckoutSession(ctx, checkoutItems, s.currency, map[string]string{
		"booking_id": booking.ID.String(),
		"order_id":   booking.OrderID,
	})
	if err != nil {
		return nil, fmt.Errorf("initiate stripe checkout for booking %s: %w", bookingID, err)
	}

	now := time.Now()
	if _, err := s.repo.Payment.Upsert(ctx, &entity.PaymentRecord{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		BookingID:       booking.ID,
		UserID:          booking.UserID,
		EventID:         booking.EventID,
		Method:          entity.PaymentMethodStripe,
		Amount:          booking.TotalAmount,
		Currency:        s.currency,
		ExternalOrderID: &session.SessionID,
		Status:          entity.PaymentStatusPending,
	}); err != nil {
		return nil, fmt.Errorf("record stripe session for booking %s: %w", bookingID, err)
	}

	return &response.PaymentInitResponse{
		BookingID:   booking.ID.String(),
		SessionID:   session.SessionID,
		CheckoutURL: session.CheckoutURL,
		Amount:      booking.TotalAmount,
		Currency:    s.currency,
	}, nil
}

// VerifyPayment adalah satu-satunya jalur settlement untuk ketiga method.
// Aman dipanggil berulang: kalau booking sudah settle penuh, hasil
// sebelumnya dikembalikan tanpa side effect baru; kalau settlement
// sebelumnya terputus di tengah, retry menuntaskannya.
func (s *bookingService) VerifyPayment(ctx context.Context, bookingID string, proof PaymentProof) (*response.PaymentRecordResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID format %s: %w", bookingID, err)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s not found", bookingID)
	}

	record, err := s.repo.Payment.FindByBookingID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get payment record: %w", err)
	}

	// Idempotency guard: verify ulang untuk booking yang sudah settle
	// adalah no-op, stok tidak boleh dipotong dua kali. Kecuali booking
	// masih pending: itu artinya retry setelah crash di antara penulisan
	// record success dan transisi booking, jadi transisi + reservasi
	// di-drive ulang di sini. Aman karena reservasi selalu berjalan
	// setelah transisi paid, jadi booking yang masih pending dipastikan
	// belum memegang stok.
	if record != nil && record.Status == entity.PaymentStatusSuccess {
		if booking.Status == entity.BookingStatusPending {
			if err := s.commitSettlement(ctx, booking); err != nil {
				return nil, err
			}
			s.log.Info("Recovered interrupted settlement",
				zap.String("booking_id", bookingID),
				zap.String("order_id", booking.OrderID),
			)
		} else {
			s.log.Info("Payment already verified, returning prior result",
				zap.String("booking_id", bookingID),
			)
		}
		resp := response.PaymentRecordToResponse(record)
		return &resp, nil
	}

	// Booking yang sudah terminal (failed/cancelled) tidak boleh diverifikasi
	// ulang; hanya pending yang bisa settle
	if booking.Status != entity.BookingStatusPending {
		return nil, fmt.Errorf("booking status is %s, cannot verify payment", booking.Status)
	}

	method, externalOrderID, externalPaymentID, verifyErr := s.verifyProof(ctx, booking, proof)
	if verifyErr != nil {
		// Gateway tidak bisa dihubungi: retryable, booking tetap pending,
		// tidak ada status terminal yang ditulis
		if errors.Is(verifyErr, gateway.ErrGatewayUnavailable) {
			return nil, verifyErr
		}
		return nil, s.failPayment(ctx, booking, method, verifyErr)
	}

	now := time.Now()
	saved, err := s.repo.Payment.Upsert(ctx, &entity.PaymentRecord{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		BookingID:         booking.ID,
		UserID:            booking.UserID,
		EventID:           booking.EventID,
		Method:            method,
		Amount:            booking.TotalAmount,
		Currency:          s.currency,
		ExternalOrderID:   externalOrderID,
		ExternalPaymentID: externalPaymentID,
		Status:            entity.PaymentStatusSuccess,
	})
	if err != nil {
		return nil, fmt.Errorf("record payment for booking %s: %w", bookingID, err)
	}

	// Record sudah success; kalau salah satu langkah commit di bawah
	// gagal, retry verifikasi masuk ke jalur recovery di guard atas
	if err := s.commitSettlement(ctx, booking); err != nil {
		return nil, err
	}

	s.log.Info("Payment verified",
		zap.String("booking_id", bookingID),
		zap.String("order_id", booking.OrderID),
		zap.String("method", string(method)),
		zap.Float64("amount", booking.TotalAmount),
	)

	resp := response.PaymentRecordToResponse(saved)
	return &resp, nil
}

// commitSettlement menjalankan langkah pasca-charge: transisi booking ke
// paid lalu commit reservasi stok. Stok bisa saja habis setelah charge
// berhasil (trade-off reservasi saat verifikasi): kompensasi refund ke
// wallet.
func (s *bookingService) commitSettlement(ctx context.Context, booking *entity.Booking) error {
	if err := s.repo.Booking.UpdateStatus(ctx, booking.ID, entity.BookingStatusPaid); err != nil {
		return fmt.Errorf("mark booking %s paid: %w", booking.ID.String(), err)
	}
	booking.Status = entity.BookingStatusPaid

	items, err := s.repo.Booking.Items(ctx, booking.ID)
	if err != nil {
		return fmt.Errorf("get booking items: %w", err)
	}
	reserved, rerr := s.reserveItems(ctx, booking.EventID, items)
	if rerr != nil {
		s.releaseItems(ctx, booking.EventID, reserved)
		s.compensateChargedWithoutStock(ctx, booking)
		return fmt.Errorf("booking %s charged but stock ran out, refunded to wallet: %w", booking.ID.String(), rerr)
	}

	s.publish(ctx, events.BookingPaid, booking)
	return nil
}

// verifyProof dispatch ke verifikasi method-specific
func (s *bookingService) verifyProof(ctx context.Context, booking *entity.Booking, proof PaymentProof) (entity.PaymentMethod, *string, *string, error) {
	switch p := proof.(type) {
	case RazorpayProof:
		if err := s.razorpay.VerifySignature(p.OrderID, p.PaymentID, p.Signature); err != nil {
			return entity.PaymentMethodRazorpay, nil, nil, err
		}
		return entity.PaymentMethodRazorpay, &p.OrderID, &p.PaymentID, nil

	case StripeProof:
		paymentIntentID, err := s.stripe.VerifySession(ctx, p.SessionID, booking.TotalAmount)
		if err != nil {
			return entity.PaymentMethodStripe, nil, nil, err
		}
		return entity.PaymentMethodStripe, &p.SessionID, &paymentIntentID, nil

	case WalletProof:
		description := fmt.Sprintf("Payment for order %s", booking.OrderID)

		// Replay guard: retry setelah debit berhasil tapi record payment
		// gagal ditulis tidak boleh mendebit dua kali. Pakai ulang
		// transaksi debit yang sudah ada untuk order ini.
		prior, err := s.repo.Wallet.FindDebit(ctx, booking.UserID, description)
		if err != nil {
			return entity.PaymentMethodWallet, nil, nil, fmt.Errorf("check prior wallet debit: %w", err)
		}
		if prior != nil {
			txID := prior.ID.String()
			return entity.PaymentMethodWallet, nil, &txID, nil
		}

		walletTx, err := s.repo.Wallet.Debit(ctx, booking.UserID, booking.TotalAmount, description)
		if err != nil {
			return entity.PaymentMethodWallet, nil, nil, fmt.Errorf("debit wallet: %w", err)
		}
		if walletTx == nil {
			return entity.PaymentMethodWallet, nil, nil, ErrInsufficientBalance
		}
		txID := walletTx.ID.String()
		return entity.PaymentMethodWallet, nil, &txID, nil

	default:
		return booking.PaymentMethod, nil, nil, fmt.Errorf("unsupported payment proof %T", proof)
	}
}

// failPayment menulis status terminal failed untuk record dan booking.
// Tidak ada perubahan stok, di jalur gateway memang belum ada reservasi.
func (s *bookingService) failPayment(ctx context.Context, booking *entity.Booking, method entity.PaymentMethod, cause error) error {
	now := time.Now()
	if _, err := s.repo.Payment.Upsert(ctx, &entity.PaymentRecord{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		BookingID: booking.ID,
		UserID:    booking.UserID,
		EventID:   booking.EventID,
		Method:    method,
		Amount:    booking.TotalAmount,
		Currency:  s.currency,
		Status:    entity.PaymentStatusFailed,
	}); err != nil {
		s.log.Error("Failed to record failed payment",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
	}

	if err := s.repo.Booking.UpdateStatus(ctx, booking.ID, entity.BookingStatusFailed); err != nil {
		s.log.Error("Failed to mark booking failed",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
	}
	booking.Status = entity.BookingStatusFailed

	s.log.Warn("Payment verification failed",
		zap.String("booking_id", booking.ID.String()),
		zap.String("order_id", booking.OrderID),
		zap.Error(cause),
	)

	s.publish(ctx, events.BookingFailed, booking)
	return cause
}

// compensateChargedWithoutStock: charge berhasil tapi stok habis duluan.
// Refund dimodelkan sebagai wallet credit apapun method aslinya.
func (s *bookingService) compensateChargedWithoutStock(ctx context.Context, booking *entity.Booking) {
	if booking.TotalAmount > 0 {
		if err := s.refundToWallet(ctx, booking.UserID, booking.TotalAmount,
			fmt.Sprintf("Refund for order %s (out of stock)", booking.OrderID)); err != nil {
			s.log.Error("Failed to refund after stock exhaustion",
				zap.Error(err),
				zap.String("order_id", booking.OrderID),
			)
		}
	}

	if _, err := s.repo.Payment.UpdateStatus(ctx, booking.ID, entity.PaymentStatusRefunded); err != nil {
		s.log.Error("Failed to mark payment refunded",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
	}

	if err := s.repo.Booking.UpdateStatus(ctx, booking.ID, entity.BookingStatusFailed); err != nil {
		s.log.Error("Failed to mark booking failed",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
	}
	booking.Status = entity.BookingStatusFailed

	s.publish(ctx, events.BookingFailed, booking)
}

func (s *bookingService) CancelBooking(ctx context.Context, userID, bookingID string) error {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	id, err := uuid.Parse(bookingID)
	if err != nil {
		return fmt.Errorf("invalid booking ID format %s: %w", bookingID, err)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return fmt.Errorf("booking %s not found", bookingID)
	}
	if booking.UserID != userUUID {
		return fmt.Errorf("unauthorized to cancel this booking")
	}

	return s.cancelOne(ctx, booking)
}

func (s *bookingService) cancelOne(ctx context.Context, booking *entity.Booking) error {
	if !booking.CanCancel() {
		return fmt.Errorf("booking status is %s, cannot cancel", booking.Status)
	}

	wasPaid := booking.Status == entity.BookingStatusPaid

	if err := s.repo.Booking.UpdateStatus(ctx, booking.ID, entity.BookingStatusCancelled); err != nil {
		s.log.Error("Failed to cancel booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		return fmt.Errorf("cancel booking %s: %w", booking.ID.String(), err)
	}
	booking.Status = entity.BookingStatusCancelled

	// Kompensasi refund: record jadi refunded, amount dikreditkan ke wallet
	// (refund gateway juga dimodelkan sebagai wallet credit)
	record, err := s.repo.Payment.FindByBookingID(ctx, booking.ID)
	if err != nil {
		return fmt.Errorf("get payment record: %w", err)
	}
	if record != nil && record.Status == entity.PaymentStatusSuccess {
		if _, err := s.repo.Payment.UpdateStatus(ctx, booking.ID, entity.PaymentStatusRefunded); err != nil {
			return fmt.Errorf("mark payment refunded for booking %s: %w", booking.ID.String(), err)
		}

		if record.Amount > 0 {
			if err := s.refundToWallet(ctx, booking.UserID, record.Amount,
				fmt.Sprintf("Refund for order %s", booking.OrderID)); err != nil {
				return fmt.Errorf("refund booking %s: %w", booking.ID.String(), err)
			}
		}
	}

	// Stok hanya pernah di-reserve untuk booking yang sudah settle
	if wasPaid {
		items, err := s.repo.Booking.Items(ctx, booking.ID)
		if err != nil {
			return fmt.Errorf("get booking items: %w", err)
		}
		s.releaseItems(ctx, booking.EventID, items)
	}

	s.log.Info("Booking cancelled",
		zap.String("booking_id", booking.ID.String()),
		zap.String("order_id", booking.OrderID),
		zap.Bool("stock_released", wasPaid),
	)

	s.publish(ctx, events.BookingCancelled, booking)
	return nil
}

func (s *bookingService) CancelEventBookings(ctx context.Context, eventID string) (int, error) {
	id, err := uuid.Parse(eventID)
	if err != nil {
		return 0, fmt.Errorf("invalid event ID format %s: %w", eventID, err)
	}

	bookings, err := s.repo.Booking.FindByEventID(ctx, id,
		entity.BookingStatusPending, entity.BookingStatusPaid)
	if err != nil {
		return 0, fmt.Errorf("get bookings for event %s: %w", eventID, err)
	}

	cancelled := 0
	for _, booking := range bookings {
		if err := s.cancelOne(ctx, booking); err != nil {
			// lanjut ke booking lain; yang gagal bisa diulang
			s.log.Error("Failed to cancel booking during event cancellation",
				zap.Error(err),
				zap.String("booking_id", booking.ID.String()),
				zap.String("event_id", eventID),
			)
			continue
		}
		cancelled++
	}

	s.log.Info("Event bookings cancelled",
		zap.String("event_id", eventID),
		zap.Int("cancelled", cancelled),
		zap.Int("total", len(bookings)),
	)

	return cancelled, nil
}

func (s *bookingService) GetBookingByOrderID(ctx context.Context, orderID string) (*response.BookingResponse, error) {
	booking, err := s.repo.Booking.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s not found", orderID)
	}

	items, err := s.repo.Booking.Items(ctx, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("get booking items: %w", err)
	}

	payment, err := s.repo.Payment.FindByBookingID(ctx, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("get payment record: %w", err)
	}

	resp := response.BookingToResponse(booking, items, payment)
	return &resp, nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	limit := req.PerPage
	offset := req.Offset()

	bookings, err := s.repo.Booking.FindByUserID(ctx, userUUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("get user bookings: %w", err)
	}

	total, err := s.repo.Booking.CountByUserID(ctx, userUUID)
	if err != nil {
		return nil, fmt.Errorf("count user bookings: %w", err)
	}

	bookingResponses := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		items, _ := s.repo.Booking.Items(ctx, booking.ID)
		payment, _ := s.repo.Payment.FindByBookingID(ctx, booking.ID)
		bookingResponses[i] = response.BookingToResponse(booking, items, payment)
	}

	return response.NewPaginatedResponse(bookingResponses, req.Page, req.PerPage, total), nil
}

func (s *bookingService) EventRevenue(ctx context.Context, eventID string) (*response.RevenueResponse, error) {
	id, err := uuid.Parse(eventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID format %s: %w", eventID, err)
	}

	revenue, count, err := s.repo.Booking.RevenueByEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get event revenue: %w", err)
	}

	return &response.RevenueResponse{
		EventID:      eventID,
		PaidBookings: count,
		Revenue:      revenue,
	}, nil
}

// ==================== HELPER METHODS ====================

func (s *bookingService) loadPendingBooking(ctx context.Context, userID, bookingID string, method entity.PaymentMethod) (*entity.Booking, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID format %s: %w", bookingID, err)
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s not found", bookingID)
	}
	if booking.UserID != userUUID {
		return nil, fmt.Errorf("unauthorized to pay for this booking")
	}
	if booking.Status != entity.BookingStatusPending {
		return nil, fmt.Errorf("booking status is %s, cannot initiate payment", booking.Status)
	}
	if booking.PaymentMethod != method {
		return nil, fmt.Errorf("booking payment method is %s, not %s", booking.PaymentMethod, method)
	}

	return booking, nil
}

// reserveItems mencoba reserve semua item berurutan. Kalau ada yang gagal,
// return item yang sudah sempat ter-reserve supaya caller bisa release.
func (s *bookingService) reserveItems(ctx context.Context, eventID uuid.UUID, items []*entity.BookingItem) ([]*entity.BookingItem, error) {
	var reserved []*entity.BookingItem
	for _, item := range items {
		ok, err := s.repo.Inventory.Reserve(ctx, eventID, item.TicketTypeID, item.Quantity)
		if err != nil {
			return reserved, fmt.Errorf("reserve %s: %w", item.Name, err)
		}
		if !ok {
			return reserved, fmt.Errorf("%s: %w", item.Name, ErrInsufficientStock)
		}
		reserved = append(reserved, item)
	}
	return reserved, nil
}

func (s *bookingService) releaseItems(ctx context.Context, eventID uuid.UUID, items []*entity.BookingItem) {
	for _, item := range items {
		if err := s.repo.Inventory.Release(ctx, eventID, item.TicketTypeID, item.Quantity); err != nil {
			s.log.Error("Failed to release inventory",
				zap.Error(err),
				zap.String("ticket_type_id", item.TicketTypeID.String()),
				zap.Int("quantity", item.Quantity),
			)
		}
	}
}

// refundToWallet auto-provision wallet kalau user belum punya
func (s *bookingService) refundToWallet(ctx context.Context, userID uuid.UUID, amount float64, description string) error {
	wallet, err := s.repo.Wallet.FindByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get wallet: %w", err)
	}
	if wallet == nil {
		now := time.Now()
		wallet = &entity.Wallet{
			Base: entity.Base{
				ID:        uuid.New(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			UserID:  userID,
			Balance: 0,
		}
		if err := s.repo.Wallet.Create(ctx, wallet); err != nil {
			return fmt.Errorf("create wallet: %w", err)
		}
	}

	if _, err := s.repo.Wallet.Credit(ctx, userID, amount, entity.TransactionTypeRefund, description); err != nil {
		return fmt.Errorf("credit wallet: %w", err)
	}

	return nil
}

func (s *bookingService) publish(ctx context.Context, eventType string, booking *entity.Booking) {
	// Post-commit step, at-least-once: kegagalan publish di-log, tidak
	// membatalkan transisi yang sudah ter-commit
	err := s.publisher.Publish(ctx, events.BookingEvent{
		Type:       eventType,
		BookingID:  booking.ID,
		OrderID:    booking.OrderID,
		UserID:     booking.UserID,
		EventID:    booking.EventID,
		Amount:     booking.TotalAmount,
		OccurredAt: time.Now(),
	})
	if err != nil {
		s.log.Error("Failed to publish booking event",
			zap.Error(err),
			zap.String("type", eventType),
			zap.String("order_id", booking.OrderID),
		)
	}
}
