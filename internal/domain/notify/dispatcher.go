package notify

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"vet-care-reminders/internal/domain/calendar"
	"vet-care-reminders/internal/domain/care"
	"vet-care-reminders/internal/domain/directory"
	"vet-care-reminders/internal/domain/reminders"
	"vet-care-reminders/internal/domain/templates"
	"vet-care-reminders/internal/platform/logger"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrGateway envuelve fallas de entrega. Se registran en el ledger, nunca abortan el batch.
	ErrGateway = errors.New("gateway error")
	// ErrNotDelivered lo devuelve un Gateway que no entrega (sin credenciales).
	// El aviso queda SKIPPED, no SENT.
	ErrNotDelivered = errors.New("delivery disabled")
)

const (
	defaultWorkers     = 4
	defaultSendTimeout = 10 * time.Second
)

type Config struct {
	Workers            int
	SendTimeout        time.Duration
	DefaultCountryCode string
}

// Deps agrupa los colaboradores. Guard, Publisher y Metrics son opcionales.
type Deps struct {
	Care      *care.Service
	Ledger    *reminders.Service
	Directory *directory.Service
	Catalog   templates.Catalog
	Gateway   Gateway
	Guard     SendGuard
	Publisher OutcomePublisher
	Metrics   Metrics
	Calendar  *calendar.Calendar
	Log       logger.Logger
}

type Dispatcher struct {
	care      *care.Service
	ledger    *reminders.Service
	dir       *directory.Service
	catalog   templates.Catalog
	gateway   Gateway
	guard     SendGuard
	publisher OutcomePublisher
	metrics   Metrics
	cal       *calendar.Calendar
	log       logger.Logger
	cfg       Config
}

func NewDispatcher(d Deps, cfg Config) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = defaultSendTimeout
	}
	if cfg.DefaultCountryCode == "" {
		cfg.DefaultCountryCode = DefaultCountryCode
	}
	if d.Guard == nil {
		d.Guard = nopGuard{}
	}
	if d.Publisher == nil {
		d.Publisher = nopPublisher{}
	}
	if d.Metrics == nil {
		d.Metrics = nopMetrics{}
	}
	if d.Catalog == nil {
		d.Catalog = templates.DefaultCatalog()
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}

	return &Dispatcher{
		care:      d.Care,
		ledger:    d.Ledger,
		dir:       d.Directory,
		catalog:   d.Catalog,
		gateway:   d.Gateway,
		guard:     d.Guard,
		publisher: d.Publisher,
		metrics:   d.Metrics,
		cal:       d.Calendar,
		log:       d.Log.With(map[string]any{"component": "dispatcher"}),
		cfg:       cfg,
	}
}

type RunOptions struct {
	// AccountScope vacío = todas las cuentas.
	AccountScope string
	// DryRun compone los mensajes pero no envía ni escribe el ledger.
	DryRun bool
}

// Delivery es el resultado de un bucket de un animal.
type Delivery struct {
	AnimalID  string            `json:"animal_id"`
	Kind      care.Kind         `json:"kind"`
	Window    reminders.Window  `json:"window"`
	Outcome   reminders.Outcome `json:"outcome,omitempty"`
	Phone     string            `json:"phone,omitempty"`
	MessageID string            `json:"message_id,omitempty"`
	Error     string            `json:"error,omitempty"`
	// Text sólo se llena en dry-run.
	Text string `json:"text,omitempty"`
}

type Report struct {
	Day          calendar.Date       `json:"day"`
	DryRun       bool                `json:"dry_run"`
	Animals      int                 `json:"animals"`
	Buckets      map[care.Bucket]int `json:"buckets"`
	Sent         int                 `json:"sent"`
	Failed       int                 `json:"failed"`
	Skipped      int                 `json:"skipped"`
	AlreadyFired int                 `json:"already_fired"`
	AnimalErrors int                 `json:"animal_errors"`
	Deliveries   []Delivery          `json:"deliveries"`
}

// collector acumula el Report desde varios workers.
type collector struct {
	mu  sync.Mutex
	rep Report
}

func (c *collector) add(fn func(r *Report)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.rep)
}

// Run hace una pasada: clasifica cada animal del scope y envía los buckets que
// aún no se dispararon hoy. Los animales se procesan en paralelo y de forma
// aislada; cancelar ctx detiene la pasada entre animales.
func (d *Dispatcher) Run(ctx context.Context, opts RunOptions) (Report, error) {
	// Toda la pasada usa este instante: cruzar la medianoche no mezcla días.
	start := d.cal.Now()
	today := d.cal.DateOf(start)

	animals, err := d.care.ListByAccount(ctx, opts.AccountScope)
	if err != nil {
		return Report{}, fmt.Errorf("list animals: %w", err)
	}

	col := &collector{rep: Report{
		Day:        today,
		DryRun:     opts.DryRun,
		Buckets:    make(map[care.Bucket]int),
		Deliveries: make([]Delivery, 0),
	}}

	var g errgroup.Group
	g.SetLimit(d.cfg.Workers)

	for _, a := range animals {
		if ctx.Err() != nil {
			break
		}
		id := a.ID
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			col.add(func(r *Report) { r.Animals++ })
			if err := d.processAnimal(ctx, id, start, opts, col); err != nil {
				d.metrics.AnimalError()
				col.add(func(r *Report) { r.AnimalErrors++ })
				d.log.Error("animal failed", map[string]any{"animal_id": id, "error": err})
			}
			return nil
		})
	}
	_ = g.Wait()

	rep := col.rep
	sort.Slice(rep.Deliveries, func(i, j int) bool {
		a, b := rep.Deliveries[i], rep.Deliveries[j]
		if a.AnimalID != b.AnimalID {
			return a.AnimalID < b.AnimalID
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Window < b.Window
	})

	elapsed := d.cal.Now().Sub(start)
	d.metrics.RunDuration(elapsed)
	d.log.Info("dispatch run finished", map[string]any{
		"day":           today.String(),
		"account":       opts.AccountScope,
		"dry_run":       opts.DryRun,
		"animals":       rep.Animals,
		"sent":          rep.Sent,
		"failed":        rep.Failed,
		"skipped":       rep.Skipped,
		"already_fired": rep.AlreadyFired,
		"animal_errors": rep.AnimalErrors,
		"elapsed_ms":    elapsed.Milliseconds(),
	})

	if err := ctx.Err(); err != nil {
		return rep, err
	}
	return rep, nil
}

// recipient es lo que se resuelve una vez por animal.
type recipient struct {
	owner    directory.Owner
	account  directory.Account
	phone    string
	phoneErr error
}

func (d *Dispatcher) processAnimal(ctx context.Context, animalID string, now time.Time, opts RunOptions, col *collector) error {
	today := d.cal.DateOf(now)
	cls, err := d.care.ClassifyAt(ctx, animalID, now)
	if err != nil {
		return fmt.Errorf("classify: %w", err)
	}
	if cls.Empty() {
		return nil
	}

	a, err := d.care.Get(ctx, animalID)
	if err != nil {
		return fmt.Errorf("load animal: %w", err)
	}

	rcpt, err := d.resolveRecipient(ctx, a)
	if err != nil {
		return err
	}

	var errs []error
	for _, ab := range cls.Activities {
		for _, b := range ab.Buckets {
			d.metrics.BucketClassified(string(b))
			col.add(func(r *Report) { r.Buckets[b]++ })

			if err := d.deliver(ctx, a, ab, b, today, rcpt, opts, col); err != nil {
				d.log.Warn("delivery failed", map[string]any{
					"animal_id": a.ID,
					"kind":      string(ab.Kind),
					"window":    string(b),
					"error":     err,
				})
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (d *Dispatcher) resolveRecipient(ctx context.Context, a care.Animal) (recipient, error) {
	var rc recipient

	owner, err := d.dir.GetOwner(ctx, a.OwnerID)
	switch {
	case err == nil:
		rc.owner = owner
		rc.phone, rc.phoneErr = NormalizePhone(owner.Phone, d.cfg.DefaultCountryCode)
	case errors.Is(err, directory.ErrNotFound):
		rc.phoneErr = fmt.Errorf("%w: owner %s not found", ErrNoPhone, a.OwnerID)
	default:
		return recipient{}, fmt.Errorf("load owner: %w", err)
	}

	acc, err := d.dir.GetAccount(ctx, a.AccountID)
	switch {
	case err == nil:
		rc.account = acc
	case errors.Is(err, directory.ErrNotFound):
		// Sin perfil: plantilla por defecto y sin remitente.
		rc.account = directory.Account{ID: a.AccountID}
	default:
		return recipient{}, fmt.Errorf("load account: %w", err)
	}
	return rc, nil
}

func purposeFor(w reminders.Window) templates.Purpose {
	switch w {
	case reminders.WindowMissed:
		return templates.PurposeMissed
	case reminders.WindowThankYou:
		return templates.PurposeThankYou
	default:
		return templates.PurposeReminder
	}
}

func claimKey(k reminders.Key) string {
	return fmt.Sprintf("reminder:%s:%s:%s:%s", k.AnimalID, k.Kind, k.Window, k.Day)
}

func (d *Dispatcher) compose(a care.Animal, st care.ActivityState, w reminders.Window, rc recipient) (string, error) {
	tpl, err := templates.ForPurpose(d.catalog, rc.account.TemplateID, purposeFor(w))
	if err != nil {
		return "", err
	}
	return templates.Compose(tpl, templates.Data{
		OwnerName:    rc.owner.Name,
		PetName:      a.Name,
		PetEmoji:     PetEmoji(a.Species),
		ActivityType: ActivityType(st),
		DueDate:      formatDueDate(st.NextDueDate),
		Contact:      rc.account.Contact,
		SenderName:   SenderName(rc.account),
	}), nil
}

func (d *Dispatcher) deliver(ctx context.Context, a care.Animal, ab care.ActivityBuckets, b care.Bucket, today calendar.Date, rc recipient, opts RunOptions, col *collector) error {
	w := reminders.WindowFor(b)
	key := reminders.Key{AnimalID: a.ID, Kind: ab.Kind, Window: w, Day: today}
	dl := Delivery{AnimalID: a.ID, Kind: ab.Kind, Window: w, Phone: rc.phone}

	fired, err := d.ledger.HasFiredToday(ctx, a.ID, ab.Kind, w, today)
	if err != nil {
		return fmt.Errorf("ledger lookup: %w", err)
	}
	if fired {
		col.add(func(r *Report) { r.AlreadyFired++ })
		return nil
	}

	text, err := d.compose(a, ab.State, w, rc)
	if err != nil {
		return fmt.Errorf("compose: %w", err)
	}

	if opts.DryRun {
		dl.Text = text
		if rc.phoneErr != nil {
			dl.Error = rc.phoneErr.Error()
		}
		col.add(func(r *Report) {
			r.Skipped++
			r.Deliveries = append(r.Deliveries, dl)
		})
		return nil
	}

	claimed, err := d.guard.Claim(ctx, claimKey(key))
	if err != nil {
		return fmt.Errorf("claim: %w", err)
	}
	if !claimed {
		col.add(func(r *Report) { r.AlreadyFired++ })
		return nil
	}

	entry := reminders.Entry{
		AccountID: a.AccountID,
		AnimalID:  a.ID,
		OwnerID:   a.OwnerID,
		Kind:      ab.Kind,
		Window:    w,
		Day:       today,
	}

	switch {
	case rc.phoneErr != nil:
		entry.Outcome = reminders.OutcomeSkipped
		entry.Error = rc.phoneErr.Error()
	default:
		sendCtx, cancel := context.WithTimeout(ctx, d.cfg.SendTimeout)
		msgID, sendErr := d.gateway.Send(sendCtx, rc.phone, text)
		cancel()
		switch {
		case errors.Is(sendErr, ErrNotDelivered):
			entry.Outcome = reminders.OutcomeSkipped
			entry.Error = sendErr.Error()
		case sendErr != nil:
			entry.Outcome = reminders.OutcomeFailed
			entry.Error = fmt.Errorf("%w: %v", ErrGateway, sendErr).Error()
		default:
			entry.Outcome = reminders.OutcomeSent
			entry.MessageID = msgID
		}
	}
	entry.SentAt = d.cal.Now()

	recorded, recErr := d.ledger.Record(ctx, entry)
	if entry.Outcome == reminders.OutcomeFailed || recErr != nil {
		if err := d.guard.Release(ctx, claimKey(key)); err != nil {
			d.log.Warn("release claim failed", map[string]any{"key": claimKey(key), "error": err})
		}
	}
	if recErr != nil {
		return fmt.Errorf("record: %w", recErr)
	}

	dl.Outcome = recorded.Outcome
	dl.MessageID = recorded.MessageID
	dl.Error = entry.Error
	col.add(func(r *Report) {
		switch entry.Outcome {
		case reminders.OutcomeSent:
			r.Sent++
		case reminders.OutcomeFailed:
			r.Failed++
		default:
			r.Skipped++
		}
		r.Deliveries = append(r.Deliveries, dl)
	})
	d.metrics.ReminderOutcome(string(w), string(entry.Outcome))

	if entry.Outcome == reminders.OutcomeSent {
		if err := d.afterSent(ctx, a.ID, ab.Kind, key); err != nil {
			return err
		}
	}

	if err := d.publisher.Publish(ctx, OutcomeEvent{
		AccountID: entry.AccountID,
		AnimalID:  entry.AnimalID,
		OwnerID:   entry.OwnerID,
		Kind:      entry.Kind,
		Window:    entry.Window,
		Day:       entry.Day,
		Outcome:   entry.Outcome,
		MessageID: entry.MessageID,
		Error:     entry.Error,
		At:        entry.SentAt,
	}); err != nil {
		d.log.Warn("publish outcome failed", map[string]any{"animal_id": a.ID, "error": err})
	}
	return nil
}

// afterSent aplica las transiciones que dependen de un envío exitoso.
func (d *Dispatcher) afterSent(ctx context.Context, animalID string, kind care.Kind, key reminders.Key) error {
	switch key.Window {
	case reminders.WindowThankYou:
		if _, _, err := d.care.MarkThankYouSent(ctx, animalID, kind); err != nil {
			return fmt.Errorf("mark thank-you on activity: %w", err)
		}
		if _, err := d.ledger.MarkThankYouSent(ctx, key); err != nil {
			return fmt.Errorf("mark thank-you on ledger: %w", err)
		}
	case reminders.WindowMissed:
		if _, err := d.ledger.MarkFollowupSent(ctx, key); err != nil {
			return fmt.Errorf("mark follow-up on ledger: %w", err)
		}
	}
	return nil
}
