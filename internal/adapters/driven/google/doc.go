// Package google implements the driven provider gateways against the
// Google APIs: OAuth consent/exchange/refresh/probe plus the Gmail,
// Calendar, Drive and People operation gateways.
//
// Every gateway takes the access token per call and holds no
// credentials; token lifecycle lives in the core. Outbound calls are
// rate limited per service to stay inside API quotas.
package google
