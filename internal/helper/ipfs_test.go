package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const cid = "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"

func TestGetIpfsPath(t *testing.T) {
	tests := []struct {
		uri  string
		path string
		ok   bool
	}{
		{"ipfs://" + cid, cid, true},
		{"ipfs://" + cid + "/7.json", cid + "/7.json", true},
		{"https://gateway.pinata.cloud/ipfs/" + cid, cid, true},
		{cid, cid, true},
		{"https://example.com/metadata/7.json", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			path, ok := GetIpfsPath(tt.uri)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.path, path)
		})
	}
}

func TestIsIpfs(t *testing.T) {
	assert.True(t, IsIpfs("ipfs://"+cid))
	assert.True(t, IsIpfs("ipfs://short"))
	assert.False(t, IsIpfs("https://example.com/7.json"))
}

func TestGatewayUrls(t *testing.T) {
	hosts := []string{"https://a.example/", "https://b.example"}

	assert.Equal(t, []string{
		"https://a.example/ipfs/" + cid + "/1.json",
		"https://b.example/ipfs/" + cid + "/1.json",
	}, GatewayUrls(hosts, "ipfs://"+cid+"/1.json"))

	assert.Equal(t, []string{"https://example.com/7.json"}, GatewayUrls(hosts, "https://example.com/7.json"))
	assert.Empty(t, GatewayUrls(hosts, "not a uri"))
}
