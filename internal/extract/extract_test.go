package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
	<title>  Pawsitive Grooming |  Wellington  </title>
	<meta name="description" content="Dog grooming   in Wellington since 2010.">
</head>
<body>
	<p>Call us on (04) 123 4567 or email info@pawsitive.co.nz</p>
	<p>Not a contact: not-an-email and test@example.com</p>
	<a href="mailto:Bookings@Pawsitive.co.nz?subject=Booking">Book now</a>
	<a href="tel:+64 4 123 4567">Phone</a>
	<a href="https://www.instagram.com/pawsitivegrooming">Instagram</a>
	<a href="https://www.instagram.com/pawsitivegrooming2">Second profile</a>
	<a href="https://www.facebook.com/pawsitivegrooming">Facebook</a>
	<a href="/about">About</a>
</body>
</html>`

func TestContacts(t *testing.T) {
	rec := Contacts("https://pawsitive.co.nz", samplePage)

	assert.Equal(t, "https://pawsitive.co.nz", rec.URL)
	assert.Equal(t, "Pawsitive Grooming | Wellington", rec.Name)
	assert.Equal(t, "Dog grooming in Wellington since 2010.", rec.Description)

	// mailto first, then text matches; placeholders excluded, all lowercased.
	assert.Equal(t, []string{"bookings@pawsitive.co.nz", "info@pawsitive.co.nz"}, rec.Emails)

	// tel: link and text phone are the same number once canonicalized.
	assert.Equal(t, []string{"041234567"}, rec.Phones)

	require.NotNil(t, rec.Socials)
	assert.Equal(t, "https://www.instagram.com/pawsitivegrooming", rec.Socials["instagram"])
	assert.Equal(t, "https://www.facebook.com/pawsitivegrooming", rec.Socials["facebook"])
	assert.NotContains(t, rec.Socials, "linkedin")
}

func TestContactsIsDeterministic(t *testing.T) {
	first := Contacts("https://pawsitive.co.nz", samplePage)
	second := Contacts("https://pawsitive.co.nz", samplePage)
	assert.Equal(t, first, second)
}

func TestContactsEmptyPage(t *testing.T) {
	rec := Contacts("https://www.silent.co.nz/contact", "")

	assert.Equal(t, "https://www.silent.co.nz/contact", rec.URL)
	assert.Equal(t, "silent.co.nz", rec.Name, "name falls back to the host without www")
	assert.Empty(t, rec.Emails)
	assert.Empty(t, rec.Phones)
	assert.Empty(t, rec.Socials)
}

func TestContactsNameFallsBackToHost(t *testing.T) {
	rec := Contacts("https://www.acme.nz", "<html><head><title>   </title></head><body></body></html>")
	assert.Equal(t, "acme.nz", rec.Name)
}

func TestEmailFiltering(t *testing.T) {
	html := `<body>
		<p>real: Sales@Acme.NZ</p>
		<p>placeholder: info@example.com yourname@gmail.com</p>
		<p>asset: logo@2x.png image@3x.jpg</p>
		<p>broken: not-an-email</p>
	</body>`

	rec := Contacts("https://acme.nz", html)
	assert.Equal(t, []string{"sales@acme.nz"}, rec.Emails)
}

func TestCanonicalPhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"+64 9 123 4567", "091234567"},
		{"09-123-4567", "091234567"},
		{"(09) 123 4567", "091234567"},
		{"+64 21 234 5678", "0212345678"},
		{"0800 123 456", "0800123456"},
		{"123 456", ""},        // too short
		{"2023 2024 2025", ""}, // digit soup, too long
		{"2010-2024", ""},      // year range, missing the 0
		{"912345678", ""},      // long enough for a prefix but missing the 0
		{"123 4567", "1234567"}, // bare local number
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalPhone(tt.in))
		})
	}
}

func TestYearRangesAreNotPhones(t *testing.T) {
	html := `<body><p>Serving Wellington 2010-2024. Call (04) 123 4567.</p></body>`

	rec := Contacts("https://acme.nz", html)
	assert.Equal(t, []string{"041234567"}, rec.Phones)
}

func TestPhoneVariantsDeduplicate(t *testing.T) {
	html := `<body>
		<p>Phone: +64 9 123 4567</p>
		<p>Phone: 09-123-4567</p>
		<p>Phone: (09) 123 4567</p>
	</body>`

	rec := Contacts("https://acme.nz", html)
	assert.Equal(t, []string{"091234567"}, rec.Phones)
}
