package metadata

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// DefaultGateway serves ipfs:// content over https.
const DefaultGateway = "https://cloudflare-ipfs.com/ipfs/"

var dataURIPattern = regexp.MustCompile(`(?is)^data:application/json(?:;charset=[^;,]+)?(;base64)?,(.*)$`)

var errNotJSONDataURI = errors.New("not a json data uri")

// ResolveURI rewrites ipfs:// links onto gateway and leaves other links untouched.
func ResolveURI(uri, gateway string) string {
	uri = strings.TrimSpace(uri)
	if rest, ok := strings.CutPrefix(uri, "ipfs://"); ok {
		rest = strings.TrimPrefix(rest, "ipfs/")
		return strings.TrimSuffix(gateway, "/") + "/" + rest
	}
	return uri
}

// decodeDataURI returns the JSON payload of a data:application/json URI.
func decodeDataURI(uri string) ([]byte, error) {
	match := dataURIPattern.FindStringSubmatch(uri)
	if match == nil {
		return nil, errNotJSONDataURI
	}
	payload := match[2]
	if match[1] == "" {
		s, err := url.PathUnescape(payload)
		if err != nil {
			return nil, fmt.Errorf("unescape data uri: %w", err)
		}
		return []byte(s), nil
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(payload)
	}
	if err != nil {
		return nil, fmt.Errorf("decode base64 data uri: %w", err)
	}
	return raw, nil
}
