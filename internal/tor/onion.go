package tor

import (
	"encoding/base32"
	"regexp"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Onion address constants.
const (
	// OnionV3Length is the length of a v3 address label without ".onion".
	OnionV3Length = 56

	// OnionV3Version is the version byte embedded in v3 addresses.
	OnionV3Version = 0x03

	// OnionSuffix is the top-level label of onion services.
	OnionSuffix = ".onion"
)

var (
	onionV3Pattern = regexp.MustCompile(`^[a-z2-7]{56}\.onion$`)
	onionV2Pattern = regexp.MustCompile(`^[a-z2-7]{16}\.onion$`)
)

// checksumPrefix is the constant prefix of the v3 checksum input.
var checksumPrefix = []byte(".onion checksum")

// IsOnionHost reports whether host (without port) belongs to an onion service.
// Subdomains such as www.<addr>.onion are onion hosts as well.
func IsOnionHost(host string) bool {
	return strings.HasSuffix(strings.ToLower(strings.TrimSuffix(host, ".")), OnionSuffix)
}

// CheckHost validates an onion host name. Subdomain labels in front of the
// 56-character address are ignored. It returns nil for valid v3 addresses.
func CheckHost(host string) error {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	labels := strings.Split(strings.TrimSuffix(host, OnionSuffix), ".")
	address := labels[len(labels)-1] + OnionSuffix

	if IsValidV3Address(address) {
		return nil
	}
	if onionV2Pattern.MatchString(address) {
		return ErrV2AddressDeprecated
	}
	return ErrInvalidOnionAddress
}

// IsValidV3Address checks format and checksum of a v3 onion address such as
// "<56 base32 chars>.onion".
func IsValidV3Address(address string) bool {
	address = strings.ToLower(address)
	if !onionV3Pattern.MatchString(address) {
		return false
	}

	decoded, err := base32.StdEncoding.DecodeString(strings.ToUpper(strings.TrimSuffix(address, OnionSuffix)))
	if err != nil || len(decoded) != 35 {
		return false
	}

	// 32 bytes public key, 2 bytes checksum, 1 byte version.
	pubkey := decoded[:32]
	checksum := decoded[32:34]
	version := decoded[34]
	if version != OnionV3Version {
		return false
	}

	expected := computeV3Checksum(pubkey, version)
	return checksum[0] == expected[0] && checksum[1] == expected[1]
}

// EncodeV3Address builds the v3 onion address of an ed25519 public key.
func EncodeV3Address(pubkey []byte) (string, error) {
	if len(pubkey) != 32 {
		return "", ErrInvalidOnionAddress
	}

	data := make([]byte, 35)
	copy(data[:32], pubkey)
	copy(data[32:34], computeV3Checksum(pubkey, OnionV3Version))
	data[34] = OnionV3Version

	return strings.ToLower(base32.StdEncoding.EncodeToString(data)) + OnionSuffix, nil
}

// computeV3Checksum returns the first two bytes of
// SHA3-256(".onion checksum" || pubkey || version).
func computeV3Checksum(pubkey []byte, version byte) []byte {
	data := make([]byte, 0, len(checksumPrefix)+len(pubkey)+1)
	data = append(data, checksumPrefix...)
	data = append(data, pubkey...)
	data = append(data, version)

	hash := sha3.Sum256(data)
	return hash[:2]
}
