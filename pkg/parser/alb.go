package parser

// ALB is the Application Load Balancer access-log dialect.
//
// See https://docs.aws.amazon.com/elasticloadbalancing/latest/application/load-balancer-access-logs.html#access-log-entry-format
var ALB = newDialect("alb", ".log.gz", true, func(g *grammar) {
	g.capture("type", `http|https|h2|grpcs|ws|wss`).space().
		capture("time", timestampExpr).space().
		capture("elb", `[a-zA-Z0-9](?:[/a-zA-Z0-9-]*[a-zA-Z0-9])?`).space().
		capture("client_ip", ipv4Expr).literal(":").
		capture("client_port", portExpr).space().
		capture("target_ip_port", ipPortExpr+`|-`).space().
		capture("request_processing_time", durationExpr).space().
		capture("target_processing_time", durationExpr).space().
		capture("response_processing_time", durationExpr).space().
		capture("elb_status_code", `[0-9]{3}|-`).space().
		capture("target_status_code", `[0-9]{3}|-`).space().
		capture("received_bytes", countExpr).space().
		capture("sent_bytes", countExpr).space()

	// "METHOD URL VERSION"
	g.literal(`"`).
		capture("http_method", `-|[A-Z_]+`).space().
		capture("url", quotedTextExpr).space().
		capture("http_version", `- ?|HTTP/[0-9.]+`).
		literal(`"`).space()

	g.capture("user_agent", `"`+quotedTextExpr+`"`).space().
		capture("ssl_cipher", cipherExpr).space().
		capture("ssl_protocol", tlsExpr).space().
		capture("target_group_arn", `arn:[^ ]*|-`).space().
		literal(`"`).capture("trace_id", `(?:[^\\"]|\\")*`).literal(`"`).space().
		literal(`"`).capture("domain_name", `[0-9A-Za-z.\-*]*`).literal(`"`).space().
		literal(`"`).capture("chosen_cert_arn", `arn:(?:[^\\"]|\\")*|session-reused|-`).literal(`"`).space().
		capture("matched_rule_priority", `[0-9]{1,5}|-1|-`).space().
		capture("request_creation_time", timestampExpr).space().
		literal(`"`).capture("actions_executed", `[a-z-]*`).literal(`"`).space().
		literal(`"`).capture("redirect_url", quotedTextExpr+`|-`).literal(`"`).space().
		literal(`"`).capture("error_reason", `[a-zA-Z]+|-`).literal(`"`).space().
		literal(`"`).capture("target_ip_port_list", ipPortExpr+`(?: `+ipPortExpr+`)*|-`).literal(`"`).space().
		literal(`"`).capture("target_status_code_list", `[0-9]{3}(?: [0-9]{3})*|-`).literal(`"`).space().
		literal(`"`).capture("classification", `Acceptable|Ambiguous|Severe|-`).literal(`"`).space().
		literal(`"`).capture("classification_reason", `[a-zA-Z]+|-`).literal(`"`)
})
