package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"event-ticketing/internal/data/entity"
	"event-ticketing/internal/data/repository"
	"event-ticketing/internal/events"
	"event-ticketing/internal/gateway"

	"github.com/google/uuid"
)

// In-memory fakes untuk semua repository + gateway. Semua thread-safe
// supaya bisa dipakai di test concurrency.

type fakeEventRepo struct {
	mu     sync.Mutex
	events map[uuid.UUID]*entity.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[uuid.UUID]*entity.Event)}
}

func (f *fakeEventRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	event, ok := f.events[id]
	if !ok {
		return nil, nil
	}
	copied := *event
	return &copied, nil
}

func (f *fakeEventRepo) FindPublished(ctx context.Context, limit, offset int) ([]*entity.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*entity.Event
	for _, event := range f.events {
		if event.Status == entity.EventStatusPublished {
			copied := *event
			result = append(result, &copied)
		}
	}
	return result, nil
}

type fakeInventoryRepo struct {
	mu          sync.Mutex
	ticketTypes map[uuid.UUID]*entity.TicketType
}

func newFakeInventoryRepo() *fakeInventoryRepo {
	return &fakeInventoryRepo{ticketTypes: make(map[uuid.UUID]*entity.TicketType)}
}

func (f *fakeInventoryRepo) FindTicketType(ctx context.Context, eventID, ticketTypeID uuid.UUID) (*entity.TicketType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tt, ok := f.ticketTypes[ticketTypeID]
	if !ok || tt.EventID != eventID {
		return nil, nil
	}
	copied := *tt
	return &copied, nil
}

func (f *fakeInventoryRepo) ListByEventID(ctx context.Context, eventID uuid.UUID) ([]*entity.TicketType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*entity.TicketType
	for _, tt := range f.ticketTypes {
		if tt.EventID == eventID {
			copied := *tt
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (f *fakeInventoryRepo) CheckAvailable(ctx context.Context, eventID, ticketTypeID uuid.UUID, quantity int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tt, ok := f.ticketTypes[ticketTypeID]
	if !ok || tt.EventID != eventID {
		return false, fmt.Errorf("ticket type %s not found", ticketTypeID)
	}
	return tt.Quantity >= quantity, nil
}

func (f *fakeInventoryRepo) Reserve(ctx context.Context, eventID, ticketTypeID uuid.UUID, quantity int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tt, ok := f.ticketTypes[ticketTypeID]
	if !ok || tt.EventID != eventID {
		return false, nil
	}
	if tt.Quantity < quantity {
		return false, nil
	}
	tt.Quantity -= quantity
	return true, nil
}

func (f *fakeInventoryRepo) Release(ctx context.Context, eventID, ticketTypeID uuid.UUID, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	tt, ok := f.ticketTypes[ticketTypeID]
	if !ok || tt.EventID != eventID {
		return fmt.Errorf("ticket type %s not found", ticketTypeID)
	}
	tt.Quantity += quantity
	return nil
}

func (f *fakeInventoryRepo) stock(ticketTypeID uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ticketTypes[ticketTypeID].Quantity
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*entity.Booking
	items    map[uuid.UUID][]*entity.BookingItem

	// failNextUpdateStatus bikin satu call UpdateStatus berikutnya gagal,
	// untuk mensimulasikan crash di tengah settlement
	failNextUpdateStatus error
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings: make(map[uuid.UUID]*entity.Booking),
		items:    make(map[uuid.UUID][]*entity.BookingItem),
	}
}

func (f *fakeBookingRepo) Create(ctx context.Context, booking *entity.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *booking
	copied.Items = nil
	f.bookings[booking.ID] = &copied
	for _, item := range booking.Items {
		itemCopy := *item
		f.items[booking.ID] = append(f.items[booking.ID], &itemCopy)
	}
	return nil
}

func (f *fakeBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.bookings[id]
	if !ok {
		return nil, nil
	}
	copied := *booking
	return &copied, nil
}

func (f *fakeBookingRepo) FindByOrderID(ctx context.Context, orderID string) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, booking := range f.bookings {
		if booking.OrderID == orderID {
			copied := *booking
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingRepo) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*entity.Booking
	for _, booking := range f.bookings {
		if booking.UserID == userID {
			copied := *booking
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (f *fakeBookingRepo) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, booking := range f.bookings {
		if booking.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (f *fakeBookingRepo) Items(ctx context.Context, bookingID uuid.UUID) ([]*entity.BookingItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*entity.BookingItem
	for _, item := range f.items[bookingID] {
		copied := *item
		result = append(result, &copied)
	}
	return result, nil
}

func (f *fakeBookingRepo) FindByEventID(ctx context.Context, eventID uuid.UUID, statuses ...entity.BookingStatus) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*entity.Booking
	for _, booking := range f.bookings {
		if booking.EventID != eventID {
			continue
		}
		for _, status := range statuses {
			if booking.Status == status {
				copied := *booking
				result = append(result, &copied)
				break
			}
		}
	}
	return result, nil
}

func (f *fakeBookingRepo) UpdateStatus(ctx context.Context, bookingID uuid.UUID, status entity.BookingStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNextUpdateStatus != nil {
		err := f.failNextUpdateStatus
		f.failNextUpdateStatus = nil
		return err
	}
	booking, ok := f.bookings[bookingID]
	if !ok {
		return fmt.Errorf("booking %s not found", bookingID)
	}
	booking.Status = status
	booking.UpdatedAt = time.Now()
	return nil
}

func (f *fakeBookingRepo) ExistsByUserAndCoupon(ctx context.Context, userID uuid.UUID, couponCode string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, booking := range f.bookings {
		if booking.UserID == userID && booking.CouponCode != nil &&
			*booking.CouponCode == couponCode && booking.Status != entity.BookingStatusFailed {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBookingRepo) RevenueByEvent(ctx context.Context, eventID uuid.UUID) (float64, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var revenue float64
	var count int64
	for _, booking := range f.bookings {
		if booking.EventID == eventID && booking.Status == entity.BookingStatusPaid {
			revenue += booking.TotalAmount
			count++
		}
	}
	return revenue, count, nil
}

type fakePaymentRepo struct {
	mu      sync.Mutex
	records map[uuid.UUID]*entity.PaymentRecord // keyed by booking ID

	// failNextUpsert bikin satu call Upsert berikutnya gagal, untuk
	// mensimulasikan crash setelah charge tapi sebelum record tertulis
	failNextUpsert error
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{records: make(map[uuid.UUID]*entity.PaymentRecord)}
}

func (f *fakePaymentRepo) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.PaymentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[bookingID]
	if !ok {
		return nil, nil
	}
	copied := *record
	return &copied, nil
}

func (f *fakePaymentRepo) Upsert(ctx context.Context, record *entity.PaymentRecord) (*entity.PaymentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNextUpsert != nil {
		err := f.failNextUpsert
		f.failNextUpsert = nil
		return nil, err
	}
	existing, ok := f.records[record.BookingID]
	if !ok {
		copied := *record
		f.records[record.BookingID] = &copied
		result := copied
		return &result, nil
	}
	existing.Method = record.Method
	existing.Amount = record.Amount
	existing.Currency = record.Currency
	existing.Status = record.Status
	if record.ExternalOrderID != nil {
		existing.ExternalOrderID = record.ExternalOrderID
	}
	if record.ExternalPaymentID != nil {
		existing.ExternalPaymentID = record.ExternalPaymentID
	}
	existing.UpdatedAt = time.Now()
	copied := *existing
	return &copied, nil
}

func (f *fakePaymentRepo) UpdateStatus(ctx context.Context, bookingID uuid.UUID, status entity.PaymentStatus) (*entity.PaymentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[bookingID]
	if !ok {
		return nil, fmt.Errorf("payment record for booking %s not found", bookingID)
	}
	record.Status = status
	record.UpdatedAt = time.Now()
	copied := *record
	return &copied, nil
}

type fakeWalletRepo struct {
	mu           sync.Mutex
	wallets      map[uuid.UUID]*entity.Wallet // keyed by user ID
	transactions []*entity.WalletTransaction
}

func newFakeWalletRepo() *fakeWalletRepo {
	return &fakeWalletRepo{wallets: make(map[uuid.UUID]*entity.Wallet)}
}

func (f *fakeWalletRepo) Create(ctx context.Context, wallet *entity.Wallet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *wallet
	f.wallets[wallet.UserID] = &copied
	return nil
}

func (f *fakeWalletRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Wallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	wallet, ok := f.wallets[userID]
	if !ok {
		return nil, nil
	}
	copied := *wallet
	return &copied, nil
}

func (f *fakeWalletRepo) Transactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.WalletTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*entity.WalletTransaction
	for _, tx := range f.transactions {
		if tx.UserID == userID {
			copied := *tx
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (f *fakeWalletRepo) FindDebit(ctx context.Context, userID uuid.UUID, description string) (*entity.WalletTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.transactions) - 1; i >= 0; i-- {
		tx := f.transactions[i]
		if tx.UserID == userID && tx.Type == entity.TransactionTypeDebit && tx.Description == description {
			copied := *tx
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeWalletRepo) Debit(ctx context.Context, userID uuid.UUID, amount float64, description string) (*entity.WalletTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	wallet, ok := f.wallets[userID]
	if !ok {
		return nil, fmt.Errorf("wallet for user %s not found", userID)
	}
	if wallet.Balance < amount {
		return nil, nil
	}
	wallet.Balance -= amount
	tx := &entity.WalletTransaction{
		ID:          uuid.New(),
		WalletID:    wallet.ID,
		UserID:      userID,
		Type:        entity.TransactionTypeDebit,
		Amount:      amount,
		Description: description,
		CreatedAt:   time.Now(),
	}
	f.transactions = append(f.transactions, tx)
	copied := *tx
	return &copied, nil
}

func (f *fakeWalletRepo) Credit(ctx context.Context, userID uuid.UUID, amount float64, txType entity.TransactionType, description string) (*entity.WalletTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if txType == entity.TransactionTypeDebit {
		return nil, fmt.Errorf("credit cannot record a debit transaction")
	}
	wallet, ok := f.wallets[userID]
	if !ok {
		return nil, fmt.Errorf("wallet for user %s not found", userID)
	}
	wallet.Balance += amount
	tx := &entity.WalletTransaction{
		ID:          uuid.New(),
		WalletID:    wallet.ID,
		UserID:      userID,
		Type:        txType,
		Amount:      amount,
		Description: description,
		CreatedAt:   time.Now(),
	}
	f.transactions = append(f.transactions, tx)
	copied := *tx
	return &copied, nil
}

// balance rekonstruksi dari transaction log, untuk cek invariant
// balance == jumlah signed transactions
func (f *fakeWalletRepo) ledgerSum(userID uuid.UUID) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	sum := 0.0
	for _, tx := range f.transactions {
		if tx.UserID == userID {
			sum += tx.Type.Signed(tx.Amount)
		}
	}
	return sum
}

func (f *fakeWalletRepo) balance(userID uuid.UUID) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	wallet, ok := f.wallets[userID]
	if !ok {
		return 0
	}
	return wallet.Balance
}

// ==================== GATEWAY FAKES ====================

// fakeRazorpay implements gateway.RazorpayGateway. Signature dianggap
// valid kalau sama dengan validSignature yang disetel test.
type fakeRazorpay struct {
	mu             sync.Mutex
	unavailable    bool
	validSignature string
	orders         int
}

func (f *fakeRazorpay) CreateOrder(ctx context.Context, amount float64, currency, receipt string) (*gateway.RazorpayOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unavailable {
		return nil, fmt.Errorf("create razorpay order for %s: %w", receipt, gateway.ErrGatewayUnavailable)
	}
	f.orders++
	return &gateway.RazorpayOrder{
		OrderID:  fmt.Sprintf("order_fake_%d", f.orders),
		Amount:   amount,
		Currency: currency,
	}, nil
}

func (f *fakeRazorpay) VerifySignature(orderID, paymentID, signature string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unavailable {
		return fmt.Errorf("verify razorpay payment %s: %w", paymentID, gateway.ErrGatewayUnavailable)
	}
	if signature != f.validSignature {
		return fmt.Errorf("verify razorpay payment %s: %w", paymentID, gateway.ErrVerificationFailed)
	}
	return nil
}

// fakeStripe implements gateway.StripeGateway
type fakeStripe struct {
	mu           sync.Mutex
	unavailable  bool
	paidSessions map[string]float64 // session ID -> paid amount
	sessions     int
}

func newFakeStripe() *fakeStripe {
	return &fakeStripe{paidSessions: make(map[string]float64)}
}

func (f *fakeStripe) CreateCheckoutSession(ctx context.Context, items []gateway.CheckoutItem, currency string, metadata map[string]string) (*gateway.CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unavailable {
		return nil, fmt.Errorf("create stripe checkout session: %w", gateway.ErrGatewayUnavailable)
	}
	f.sessions++
	sessionID := fmt.Sprintf("cs_fake_%d", f.sessions)
	return &gateway.CheckoutSession{
		SessionID:   sessionID,
		CheckoutURL: "https://checkout.stripe.test/" + sessionID,
	}, nil
}

func (f *fakeStripe) VerifySession(ctx context.Context, sessionID string, expectedAmount float64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unavailable {
		return "", fmt.Errorf("retrieve stripe session %s: %w", sessionID, gateway.ErrGatewayUnavailable)
	}
	paid, ok := f.paidSessions[sessionID]
	if !ok {
		return "", fmt.Errorf("stripe session %s not paid: %w", sessionID, gateway.ErrVerificationFailed)
	}
	if paid != expectedAmount {
		return "", fmt.Errorf("stripe session %s amount mismatch: %w", sessionID, gateway.ErrVerificationFailed)
	}
	return "pi_fake_" + sessionID, nil
}

func (f *fakeStripe) markPaid(sessionID string, amount float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paidSessions[sessionID] = amount
}

type fakePublisher struct {
	mu     sync.Mutex
	events []events.BookingEvent
}

func (f *fakePublisher) Publish(ctx context.Context, event events.BookingEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakePublisher) byType(eventType string) []events.BookingEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []events.BookingEvent
	for _, e := range f.events {
		if e.Type == eventType {
			result = append(result, e)
		}
	}
	return result
}

func newFakeRepository() (*repository.Repository, *fakeEventRepo, *fakeInventoryRepo, *fakeBookingRepo, *fakePaymentRepo, *fakeWalletRepo) {
	eventRepo := newFakeEventRepo()
	inventoryRepo := newFakeInventoryRepo()
	bookingRepo := newFakeBookingRepo()
	paymentRepo := newFakePaymentRepo()
	walletRepo := newFakeWalletRepo()

	repo := &repository.Repository{
		Event:     eventRepo,
		Inventory: inventoryRepo,
		Booking:   bookingRepo,
		Payment:   paymentRepo,
		Wallet:    walletRepo,
	}

	return repo, eventRepo, inventoryRepo, bookingRepo, paymentRepo, walletRepo
}
