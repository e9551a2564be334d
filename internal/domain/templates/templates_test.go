package templates

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompose_SubstitutesAllPlaceholders(t *testing.T) {
	tpl := Template{Body: "Hi {{ownerName}}, {{petName}} {{petEmoji}} needs {{activityType}} on {{dueDate}}. Call {{contact}}. {{senderName}}"}

	got := Compose(tpl, Data{
		OwnerName:    "Asha",
		PetName:      "Bruno",
		PetEmoji:     "🐶",
		ActivityType: "Rabies vaccination",
		DueDate:      "10 Jun 2024",
		Contact:      "+91 98765 43210",
		SenderName:   "Dr. Mehta",
	})

	assert.Equal(t, "Hi Asha, Bruno 🐶 needs Rabies vaccination on 10 Jun 2024. Call +91 98765 43210. Dr. Mehta", got)
}

func TestCompose_MissingValuesRenderEmpty(t *testing.T) {
	tpl := Template{Body: "[{{ownerName}}][{{ unknown }}][{{ petName }}]"}
	assert.Equal(t, "[][][Bruno]", Compose(tpl, Data{PetName: "Bruno"}))
}

func TestCompose_LeavesNoPlaceholdersInCatalog(t *testing.T) {
	for _, tpl := range DefaultCatalog().List() {
		out := Compose(tpl, Data{OwnerName: "A", PetName: "B"})
		assert.NotContains(t, out, "{{", tpl.ID)
		assert.NotContains(t, out, "}}", tpl.ID)
	}
}

func TestCompose_LegacyPlaceholderNames(t *testing.T) {
	tpl := Template{Body: "{{vaccine}} / {{clinicName}} / {{doctorName}}"}
	assert.Equal(t, "DHPP / Happy Paws / Happy Paws", Compose(tpl, Data{ActivityType: "DHPP", SenderName: "Happy Paws"}))
}

func TestCatalog_GetAndList(t *testing.T) {
	c := DefaultCatalog()

	ids := make([]string, 0)
	for _, tpl := range c.List() {
		ids = append(ids, tpl.ID)
	}
	assert.Equal(t, []string{FriendlyV1, FriendlyV2, EmotionalCaring, MissedFollowup, ThankYou}, ids)

	tpl, err := c.Get("friendly_v2")
	require.NoError(t, err)
	assert.Equal(t, "Friendly Version 2", tpl.Label)
	assert.True(t, strings.Contains(tpl.Body, "{{petName}}"))

	_, err = c.Get("NOPE")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestForPurpose_FallsBackToDefault(t *testing.T) {
	c := DefaultCatalog()

	tpl, err := ForPurpose(c, EmotionalCaring, PurposeReminder)
	require.NoError(t, err)
	assert.Equal(t, EmotionalCaring, tpl.ID)

	tpl, err = ForPurpose(c, "", PurposeReminder)
	require.NoError(t, err)
	assert.Equal(t, FriendlyV1, tpl.ID)

	// Una plantilla de recordatorio no sirve para el agradecimiento.
	tpl, err = ForPurpose(c, EmotionalCaring, PurposeThankYou)
	require.NoError(t, err)
	assert.Equal(t, ThankYou, tpl.ID)

	tpl, err = ForPurpose(c, "UNKNOWN", PurposeMissed)
	require.NoError(t, err)
	assert.Equal(t, MissedFollowup, tpl.ID)
}
