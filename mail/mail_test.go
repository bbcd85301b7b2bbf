package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOTPMail(t *testing.T) {
	subject, body := OTPMail("123456")
	assert.Equal(t, "Your KotuBrief verification code", subject)
	assert.Contains(t, body, "123456")
	assert.Contains(t, body, "10 minutes")
}

func TestResetMail(t *testing.T) {
	subject, body := ResetMail("654321")
	assert.Equal(t, "Reset your KotuBrief password", subject)
	assert.Contains(t, body, "654321")
	assert.Contains(t, body, "10 minutes")
}
