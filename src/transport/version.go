package transport

// Version is reported as the MCP server implementation version and by
// `easy-markup-guard --version`. Release builds set it with
//
//	-ldflags "-X github.com/Easy-Infra-Ltd/easy-markup-guard/src/transport.Version=<tag>"
var Version = "dev"
