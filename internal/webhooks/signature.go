package webhooks

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Signatures cover "<unix ts>.<body>" and travel as "t=<ts>,v1=<hex>" in
// X-Signature, so receivers can reject replays outside their tolerance.

// SignHMAC returns lowercase hex of HMAC-SHA256 over ts.body.
func SignHMAC(secret string, ts int64, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// SignatureHeader builds the X-Signature value for body sent at ts.
func SignatureHeader(secret string, ts time.Time, body []byte) string {
	unix := ts.Unix()
	return fmt.Sprintf("t=%d,v1=%s", unix, SignHMAC(secret, unix, body))
}

// VerifyHMAC checks an X-Signature header against body. Signatures older or
// newer than tolerance relative to now are rejected; zero disables the check.
func VerifyHMAC(secret string, body []byte, header string, now time.Time, tolerance time.Duration) bool {
	var ts int64
	var sig string
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return false
			}
			ts = n
		case "v1":
			sig = v
		}
	}
	if ts == 0 || sig == "" {
		return false
	}
	if tolerance > 0 {
		age := now.Sub(time.Unix(ts, 0))
		if age > tolerance || age < -tolerance {
			return false
		}
	}
	got, err := hex.DecodeString(sig)
	if err != nil {
		return false
	}
	want, _ := hex.DecodeString(SignHMAC(secret, ts, body))
	return hmac.Equal(want, got)
}
