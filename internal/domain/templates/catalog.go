package templates

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNotFound = errors.New("template not found")

// Purpose indica para qué ventana sirve una plantilla.
type Purpose string

const (
	PurposeReminder Purpose = "REMINDER"
	PurposeMissed   Purpose = "MISSED"
	PurposeThankYou Purpose = "THANKYOU"
)

// Template es de solo lectura: las cuentas eligen una, no la editan.
type Template struct {
	ID      string  `json:"id"`
	Label   string  `json:"label"`
	Body    string  `json:"body"`
	Purpose Purpose `json:"purpose"`
}

const (
	FriendlyV1      = "FRIENDLY_V1"
	FriendlyV2      = "FRIENDLY_V2"
	EmotionalCaring = "EMOTIONAL_CARING"
	MissedFollowup  = "MISSED_FOLLOWUP"
	ThankYou        = "THANK_YOU"
)

type Catalog interface {
	Get(id string) (Template, error)
	List() []Template
}

var defaultTemplates = []Template{
	{
		ID:      FriendlyV1,
		Label:   "Friendly Version 1",
		Purpose: PurposeReminder,
		Body: `Hello {{ownerName}} 👋

Just a friendly reminder that {{petName}} {{petEmoji}} is due for the {{activityType}} on {{dueDate}}.
Regular care keeps your pet healthy, active, and protected. We'd love to take care of {{petName}}.

📞 Call or WhatsApp us at {{contact}} to book an appointment.

- {{senderName}}`,
	},
	{
		ID:      FriendlyV2,
		Label:   "Friendly Version 2",
		Purpose: PurposeReminder,
		Body: `Hi {{ownerName}} 😊

Hope you and {{petName}} {{petEmoji}} are doing well!
This is a reminder that {{petName}}'s {{activityType}} is due on {{dueDate}}. Staying on schedule helps avoid health problems later.

Please reach out to us at {{contact}} and we'll fix a suitable time for your visit.

- Your friends at {{senderName}}`,
	},
	{
		ID:      EmotionalCaring,
		Label:   "Emotional & Caring Version",
		Purpose: PurposeReminder,
		Body: `Dear {{ownerName}},

We know that {{petName}} {{petEmoji}} is not just a pet, but a beloved family member ❤️
This is a gentle reminder that {{petName}} is due for the {{activityType}} on {{dueDate}}.

We would be honoured to care for {{petName}}.
Please call {{contact}} to book an appointment. We're here for you and your pet.

With care,
{{senderName}} & Team 🐾`,
	},
	{
		ID:      MissedFollowup,
		Label:   "Missed Appointment Follow-up",
		Purpose: PurposeMissed,
		Body: `Hello {{ownerName}},

We noticed {{petName}} {{petEmoji}} missed the {{activityType}} that was due on {{dueDate}}.
It's not too late. Please call {{contact}} and we'll find a new time that works for you.

- {{senderName}}`,
	},
	{
		ID:      ThankYou,
		Label:   "Thank You",
		Purpose: PurposeThankYou,
		Body: `Hi {{ownerName}},

Thank you for bringing {{petName}} {{petEmoji}} in for the {{activityType}} today 🙏
If you have any questions, reach us at {{contact}}.

- {{senderName}}`,
	},
}

// defaultFor es la plantilla usada cuando la cuenta no eligió una o eligió una de otro propósito.
var defaultFor = map[Purpose]string{
	PurposeReminder: FriendlyV1,
	PurposeMissed:   MissedFollowup,
	PurposeThankYou: ThankYou,
}

type staticCatalog struct {
	byID  map[string]Template
	order []string
}

// DefaultCatalog devuelve el catálogo fijo del producto.
func DefaultCatalog() Catalog {
	c := &staticCatalog{byID: make(map[string]Template, len(defaultTemplates))}
	for _, t := range defaultTemplates {
		c.byID[t.ID] = t
		c.order = append(c.order, t.ID)
	}
	return c
}

func (c *staticCatalog) Get(id string) (Template, error) {
	t, ok := c.byID[strings.ToUpper(strings.TrimSpace(id))]
	if !ok {
		return Template{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return t, nil
}

func (c *staticCatalog) List() []Template {
	out := make([]Template, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// ForPurpose resuelve id dentro del propósito pedido; si no existe o es de otro
// propósito cae al default de ese propósito.
func ForPurpose(c Catalog, id string, p Purpose) (Template, error) {
	if strings.TrimSpace(id) != "" {
		if t, err := c.Get(id); err == nil && t.Purpose == p {
			return t, nil
		}
	}
	def, ok := defaultFor[p]
	if !ok {
		return Template{}, fmt.Errorf("%w: purpose %q", ErrNotFound, p)
	}
	return c.Get(def)
}
