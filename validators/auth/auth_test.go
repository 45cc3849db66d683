package authValidator

import (
	"testing"

	"fportal/config"

	"github.com/stretchr/testify/assert"
)

func TestEmailDomainAllowed(t *testing.T) {
	config.LoadConfig()
	config.AppConfig.AllowedEmailDomains = []string{"university.edu", "partner.ac.uk"}

	assert.True(t, EmailDomainAllowed("alice@university.edu"))
	assert.True(t, EmailDomainAllowed("alice@cs.university.edu"), "subdomains of an allowed domain pass")
	assert.True(t, EmailDomainAllowed("bob@Partner.AC.UK"), "matching is case-insensitive")

	assert.False(t, EmailDomainAllowed("mallory@gmail.com"))
	assert.False(t, EmailDomainAllowed("mallory@university.edu.evil.com"), "suffix tricks do not pass")
	assert.False(t, EmailDomainAllowed("not-an-email"))
	assert.False(t, EmailDomainAllowed("trailing@"))
}
