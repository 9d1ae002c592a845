package models

import (
	"fmt"
	"strings"

	"github.com/isupersid/stalker-test-client/pkg/errors"
	"github.com/isupersid/stalker-test-client/pkg/utils"
)

// DeviceIdentity represents one set-top-box identity presented to a portal.
type DeviceIdentity struct {
	// MAC is the canonical colon-separated uppercase address
	MAC string

	// SerialNumber is transmitted only when non-empty. An empty value means
	// the sn parameter is omitted entirely, which portals treat differently
	// from sn equal to the MAC without separators.
	SerialNumber string

	// Timezone is sent in the timezone cookie
	Timezone string
}

// NewDeviceIdentity creates an identity with a canonicalized MAC.
func NewDeviceIdentity(mac, serialNumber, timezone string) DeviceIdentity {
	return DeviceIdentity{
		MAC:          CanonicalizeMAC(mac),
		SerialNumber: serialNumber,
		Timezone:     timezone,
	}
}

// CanonicalizeMAC normalizes a MAC address to colon-separated uppercase form.
// Colon, hyphen, dot and bare styles all produce identical output. Input that
// does not contain exactly 12 hex digits is uppercased and otherwise passed
// through unchanged in structure.
func CanonicalizeMAC(mac string) string {
	clean := strings.NewReplacer(":", "", "-", "", ".", "").Replace(strings.TrimSpace(mac))
	if !utils.IsMACLike(clean) {
		return strings.ToUpper(strings.TrimSpace(mac))
	}

	clean = strings.ToUpper(clean)
	octets := make([]string, 0, 6)
	for i := 0; i < 12; i += 2 {
		octets = append(octets, clean[i:i+2])
	}
	return strings.Join(octets, ":")
}

// GenerateMACRange expands a 5-octet base prefix into consecutive identities,
// e.g. GenerateMACRange("00:1A:79:16:BA:", 0, 255) yields 00:1A:79:16:BA:00
// through 00:1A:79:16:BA:FF.
func GenerateMACRange(base string, start, end int) ([]string, error) {
	if start < 0 || end > 0xFF || start > end {
		return nil, errors.Newf(errors.KindConfig, "invalid MAC range %d-%d", start, end)
	}
	if !strings.HasSuffix(base, ":") {
		base += ":"
	}

	macs := make([]string, 0, end-start+1)
	for i := start; i <= end; i++ {
		macs = append(macs, CanonicalizeMAC(fmt.Sprintf("%s%02X", base, i)))
	}
	return macs, nil
}
