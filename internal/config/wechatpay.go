package config

import (
	"task-manager/internal/wechatpay"
)

// CreateBillClient builds the bill ingestion client from the WeChat Pay settings.
func CreateBillClient(config *Config) (*wechatpay.Client, error) {
	if !config.HasWeChatCredentials() {
		return nil, &ConfigError{Field: "wechat", Message: "merchant credentials are not configured"}
	}

	pemData, err := config.PrivateKeyPEM()
	if err != nil {
		return nil, err
	}
	key, err := wechatpay.ParsePrivateKey(pemData)
	if err != nil {
		return nil, &ConfigError{Field: "wechat.private_key", Message: err.Error()}
	}

	signer := wechatpay.NewSigner(config.WeChatPay.MerchantID, config.WeChatPay.CertSerialNo, key)
	return wechatpay.NewClient(signer, wechatpay.Options{
		BaseURL:  config.WeChatPay.BaseURL,
		BillType: config.WeChatPay.BillType,
		Timeout:  config.WeChatPay.RequestTimeout,
	}), nil
}
