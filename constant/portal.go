package constant

// Portal endpoints used when no override is configured.
const (
	PortalBaseURL  = "http://etl.snu.ac.kr/"
	PortalLoginURL = "https://sso.snu.ac.kr/safeidentity/modules/auth_idpwd"
	PortalCertURL  = "https://sso.snu.ac.kr/nls3/fcs"

	// StreamPattern matches the stream endpoint embedded in a player page.
	StreamPattern = `(http://etlstream\.snu\.ac\.kr:1935[^"'\s]*?\.mp4)`
)

// Artifact extensions.
const (
	RawExt   = "ts"
	FinalExt = "mp4"
)
