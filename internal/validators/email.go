package validators

import (
	"net"
	"strings"
)

// IsEmailDomainValid reports whether the domain part of email can receive
// mail. MX records are checked first; a plain A/AAAA record counts as a
// fallback, which is how MTAs route when no MX exists.
func IsEmailDomainValid(email string) bool {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	host := email[at+1:]

	if records, err := net.LookupMX(host); err == nil && len(records) > 0 {
		return true
	}

	addrs, err := net.LookupIP(host)
	return err == nil && len(addrs) > 0
}
