package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	s, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "Maftown Spitbraai", s.Business)
	assert.Equal(t, "+27627270654", s.Contact.Phone)
	assert.Equal(t, "+27 62 727 0654", s.Contact.PhoneDisplay)
	assert.Equal(t, "tel:+27627270654", string(s.Contact.TelURL()))
	assert.Equal(t, "https://facebook.com/MaftownSpitbraai", s.Contact.Facebook)
	assert.Equal(t, "Mafikeng, North West, South Africa", s.Contact.Location)

	require.Len(t, s.Contact.Hours, 3)
	assert.Equal(t, Hours{Days: "Monday - Friday:", Time: "8:00 AM - 6:00 PM"}, s.Contact.Hours[0])
	assert.Equal(t, Hours{Days: "Saturday:", Time: "8:00 AM - 8:00 PM"}, s.Contact.Hours[1])
	assert.Equal(t, Hours{Days: "Sunday:", Time: "10:00 AM - 6:00 PM"}, s.Contact.Hours[2])

	assert.Len(t, s.Gallery.Photos, 6)
	assert.Len(t, s.About.Highlights, 2)
	assert.Contains(t, string(s.About.Body), "<p>At Maftown Spitbraai")
	assert.Contains(t, string(s.Menu.ServiceOptions), "<strong>Hire Only:</strong>")
	assert.Contains(t, string(s.Menu.ServiceOptions), "<br")
	assert.Contains(t, string(s.Menu.CarcassNote), "whole lamb and pork carcass")
}

func TestParse_Required(t *testing.T) {
	_, err := Parse([]byte("contact:\n  phone: \"1\"\n"))
	require.Error(t, err)

	_, err = Parse([]byte("business: X\n"))
	require.Error(t, err)

	_, err = Parse([]byte("business: [unclosed"))
	require.Error(t, err)
}

func TestParse_PhoneDisplayFallback(t *testing.T) {
	s, err := Parse([]byte("business: X\ncontact:\n  phone: \"+27111\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "+27111", s.Contact.PhoneDisplay)
	assert.Empty(t, s.About.Body)
}

func TestRenderMarkdown_EscapesRawHTML(t *testing.T) {
	out, err := RenderMarkdown("hello <script>alert(1)</script> **there**")
	require.NoError(t, err)
	assert.NotContains(t, string(out), "<script>")
	assert.Contains(t, string(out), "<strong>there</strong>")
}

func TestLoad(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "Maftown Spitbraai", s.Business)

	path := filepath.Join(t.TempDir(), "content.yaml")
	require.NoError(t, os.WriteFile(path, []byte("business: Other\ncontact:\n  phone: \"1\"\n"), 0o600))
	s, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Other", s.Business)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
