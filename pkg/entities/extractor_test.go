package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Entities
	}{
		{
			name: "email and name in one message",
			text: "I'm Jane Doe, jane@acme.io",
			want: Entities{Email: "jane@acme.io"},
		},
		{
			name: "phone with country code",
			text: "call me at +1 (555) 123-4567",
			want: Entities{Phone: "555-123-4567"},
		},
		{
			name: "linkedin url",
			text: "my profile is https://linkedin.com/in/janedoe/",
			want: Entities{LinkedIn: "https://linkedin.com/in/janedoe"},
		},
		{
			name: "website but not linkedin",
			text: "site is www.janedoe.com and linkedin.com/in/janedoe",
			want: Entities{LinkedIn: "linkedin.com/in/janedoe", Website: "www.janedoe.com"},
		},
		{
			name: "years of experience",
			text: "I have 12+ years of experience in data",
			want: Entities{Years: 12, HasYears: true},
		},
		{
			name: "years abbreviated",
			text: "about 4 yrs in the industry",
			want: Entities{Years: 4, HasYears: true},
		},
		{
			name: "everything at once",
			text: "Jane Doe, jane@acme.io, 555-123-4567, linkedin.com/in/janedoe, 8 years in fintech",
			want: Entities{
				Email:    "jane@acme.io",
				Phone:    "555-123-4567",
				LinkedIn: "linkedin.com/in/janedoe",
				Years:    8,
				HasYears: true,
			},
		},
		{
			name: "nothing",
			text: "sounds good, let's continue",
			want: Entities{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.text)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractEmailDigitsNotPhone(t *testing.T) {
	// Digits inside an email address must not produce a phone match.
	got := Extract("reach me at jane5551234567@acme.io")
	assert.Equal(t, "jane5551234567@acme.io", got.Email)
	assert.Empty(t, got.Phone)
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, Entities{}.IsEmpty())
	assert.False(t, Entities{Email: "a@b.co"}.IsEmpty())
	assert.False(t, Entities{HasYears: true}.IsEmpty())
}
