package parser

// ClassicLB is the Classic Load Balancer access-log dialect.
//
// See https://docs.aws.amazon.com/elasticloadbalancing/latest/classic/access-log-collection.html#access-log-entry-syntax
var ClassicLB = newDialect("classic-lb", ".log", false, func(g *grammar) {
	g.capture("time", timestampExpr).space().
		capture("elb", `[a-zA-Z0-9](?:[a-zA-Z0-9-]*[a-zA-Z0-9])?`).space().
		capture("client_ip", ipv4Expr).literal(":").
		capture("client_port", portExpr).space().
		capture("backend_ip_port", ipPortExpr+`|-`).space().
		capture("request_processing_time", durationExpr).space().
		capture("backend_processing_time", durationExpr).space().
		capture("response_processing_time", durationExpr).space().
		capture("elb_status_code", `[0-9]{3}|-`).space().
		capture("backend_status_code", `[0-9]{1,3}|-`).space().
		capture("received_bytes", countExpr).space().
		capture("sent_bytes", countExpr).space()

	// Requests the load balancer could not parse are logged as "- - - ".
	g.literal(`"`).
		capture("http_method", `-|[A-Z]+`).space().
		capture("url", quotedTextExpr).space().
		capture("http_version", `- |HTTP/[0-9.]+`).
		literal(`"`).space()

	g.literal(`"`).capture("user_agent", quotedTextExpr).literal(`"`).space().
		capture("ssl_cipher", cipherExpr).space().
		capture("ssl_protocol", tlsExpr)
})
