package main

import (
	"crypto/subtle"
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

const (
	SIGNATURE_HEADER       = "x-guildquality-signature"
	SHORT_SIGNATURE_HEADER = "x-gq-signature"
)

// headerValue looks a header up ignoring case, as proxies do not agree on casing.
func headerValue(request events.APIGatewayProxyRequest, name string) string {
	for k, v := range request.Headers {
		if strings.EqualFold(k, name) && v != "" {
			return v
		}
	}
	for k, values := range request.MultiValueHeaders {
		if strings.EqualFold(k, name) && len(values) > 0 && values[0] != "" {
			return values[0]
		}
	}
	return ""
}

// providedSignature returns the signature and the header it came from.
func providedSignature(request events.APIGatewayProxyRequest) (string, string) {
	for _, name := range []string{SIGNATURE_HEADER, SHORT_SIGNATURE_HEADER} {
		if v := headerValue(request, name); v != "" {
			return v, name
		}
	}
	return "", ""
}

// signatureAccepted reports whether the request may proceed. With no secret
// configured every request is accepted: the endpoint is open on purpose.
func signatureAccepted(secret string, provided string) bool {
	if secret == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(secret), []byte(provided)) == 1
}
