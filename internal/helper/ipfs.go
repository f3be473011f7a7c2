package helper

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var ipfsPattern = regexp.MustCompile("((Qm[1-9A-HJ-NP-Za-km-z]{44}|b[a-z2-7]{58}).*$)")

func IsUrl(uri string) bool {
	u, err := url.Parse(uri)
	return err == nil && u.Scheme != "" && u.Host != ""
}

func IsIpfs(uri string) bool {
	if _, ok := GetIpfsPath(uri); ok {
		return true
	}

	u, err := url.Parse(uri)
	return err == nil && u.Scheme == "ipfs"
}

// GetIpfsPath returns the content id and trailing path of an ipfs reference,
// such as "ipfs://<cid>/1.json" or "https://gateway/ipfs/<cid>".
func GetIpfsPath(uri string) (string, bool) {
	parts := ipfsPattern.FindStringSubmatch(uri)
	if len(parts) < 2 {
		return "", false
	}

	return parts[1], true
}

// GatewayUrls resolves uri against each gateway host. Plain http urls are
// returned unchanged.
func GatewayUrls(hosts []string, uri string) []string {
	path, ok := GetIpfsPath(uri)
	if !ok {
		if IsUrl(uri) && !strings.HasPrefix(uri, "ipfs://") {
			return []string{uri}
		}
		return nil
	}

	urls := make([]string, 0, len(hosts))
	for _, host := range hosts {
		urls = append(urls, fmt.Sprintf("%s/ipfs/%s", strings.TrimRight(host, "/"), path))
	}

	return urls
}
