// Package rbl builds and interprets reputation blackhole list queries on top
// of the resolution cascade. The interpretation layer keeps "the query was
// blocked" strictly separate from "the address is not listed": an automated
// check running from a data-center address is routinely refused at the
// standard-DNS layer, and folding that refusal into a clean verdict would
// turn every real listing into a silent false negative.
package rbl

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/fabriziosalmi/domainmate/internal/apperr"
	"github.com/fabriziosalmi/domainmate/internal/validate"
)

// ReverseAddr builds the RBL query name for an IP address and a zone suffix.
// IPv4 addresses have their octets reversed ("1.2.3.4" → "4.3.2.1.zone");
// IPv6 addresses are expanded to full nibble form and reversed nibble by
// nibble. Malformed input fails here, before any network activity.
func ReverseAddr(ipAddr, zone string) (string, error) {
	zone = strings.TrimSuffix(strings.TrimSpace(zone), ".")
	if !validate.IsDomain(zone) {
		return "", fmt.Errorf("%w: invalid RBL zone: %q", apperr.ErrInvalidInput, zone)
	}

	ip := net.ParseIP(strings.TrimSpace(ipAddr))
	if ip == nil {
		return "", fmt.Errorf("%w: invalid IP address: %q", apperr.ErrInvalidInput, ipAddr)
	}

	if ip4 := ip.To4(); ip4 != nil {
		return fmt.Sprintf("%d.%d.%d.%d.%s", ip4[3], ip4[2], ip4[1], ip4[0], zone), nil
	}

	ip16 := ip.To16()
	nibbles := make([]string, 0, 32)
	for i := len(ip16) - 1; i >= 0; i-- {
		nibbles = append(nibbles,
			strconv.FormatUint(uint64(ip16[i]&0xf), 16),
			strconv.FormatUint(uint64(ip16[i]>>4), 16),
		)
	}
	return strings.Join(nibbles, ".") + "." + zone, nil
}
