package wechatpay

import "fmt"

const (
	// DefaultBaseURL is the production API host.
	DefaultBaseURL = "https://api.mch.weixin.qq.com"

	tradeBillPath = "/v3/bill/tradebill"
)

// Hash algorithms the provider uses for bill file digests.
const (
	HashTypeSHA1   = "SHA1"
	HashTypeSHA256 = "SHA256"
)

// TradeBillResponse describes a downloadable bill file.
type TradeBillResponse struct {
	HashType    string `json:"hash_type"`
	HashValue   string `json:"hash_value"`
	DownloadURL string `json:"download_url"`
}

// apiError is the body returned with non-2xx responses.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e apiError) String() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
