package classify

// catalog lists known Chromium network error codes in alphabetical order.
// Matching is by substring and the first entry wins, so the order is part
// of the classification result and must not be changed.
var catalog = []entry{
	{Code: "ERR_ACCESS_DENIED"},
	{Code: "ERR_ADDRESS_INVALID"},
	{Code: "ERR_ADDRESS_IN_USE"},
	{Code: "ERR_ADDRESS_UNREACHABLE"},
	{Code: "ERR_ADD_USER_CERT_FAILED"},
	{Code: "ERR_ALPN_NEGOTIATION_FAILED"},
	{Code: "ERR_BAD_SSL_CLIENT_AUTH_CERT"},
	{Code: "ERR_BLOCKED_BY_ADMINISTRATOR"},
	{Code: "ERR_BLOCKED_BY_CLIENT"},
	{Code: "ERR_BLOCKED_BY_CSP"},
	{Code: "ERR_BLOCKED_BY_RESPONSE"},
	{Code: "ERR_BLOCKED_ENROLLMENT_CHECK_PENDING"},
	{Code: "ERR_CACHE_AUTH_FAILURE_AFTER_READ"},
	{Code: "ERR_CACHE_CHECKSUM_MISMATCH"},
	{Code: "ERR_CACHE_CHECKSUM_READ_FAILURE"},
	{Code: "ERR_CACHE_CREATE_FAILURE"},
	{Code: "ERR_CACHE_DOOM_FAILURE"},
	{Code: "ERR_CACHE_ENTRY_NOT_SUITABLE"},
	{Code: "ERR_CACHE_LOCK_TIMEOUT"},
	{Code: "ERR_CACHE_MISS"},
	{Code: "ERR_CACHE_OPEN_FAILURE"},
	{Code: "ERR_CACHE_OPEN_OR_CREATE_FAILURE"},
	{Code: "ERR_CACHE_OPERATION_NOT_SUPPORTED"},
	{Code: "ERR_CACHE_RACE"},
	{Code: "ERR_CACHE_READ_FAILURE"},
	{Code: "ERR_CACHE_WRITE_FAILURE"},
	{Code: "ERR_CERTIFICATE_TRANSPARENCY_REQUIRED"},
	{Code: "ERR_CERT_AUTHORITY_INVALID", Hint: "The TLS certificate of the url is not issued by a trusted authority."},
	{Code: "ERR_CERT_COMMON_NAME_INVALID"},
	{Code: "ERR_CERT_CONTAINS_ERRORS"},
	{Code: "ERR_CERT_DATABASE_CHANGED"},
	{Code: "ERR_CERT_DATE_INVALID"},
	{Code: "ERR_CERT_END"},
	{Code: "ERR_CERT_ERROR_IN_SSL_RENEGOTIATION"},
	{Code: "ERR_CERT_INVALID"},
	{Code: "ERR_CERT_KNOWN_INTERCEPTION_BLOCKED"},
	{Code: "ERR_CERT_NAME_CONSTRAINT_VIOLATION"},
	{Code: "ERR_CERT_NON_UNIQUE_NAME"},
	{Code: "ERR_CERT_NO_REVOCATION_MECHANISM"},
	{Code: "ERR_CERT_REVOKED"},
	{Code: "ERR_CERT_SYMANTEC_LEGACY"},
	{Code: "ERR_CERT_UNABLE_TO_CHECK_REVOCATION"},
	{Code: "ERR_CERT_VALIDITY_TOO_LONG"},
	{Code: "ERR_CERT_WEAK_KEY"},
	{Code: "ERR_CERT_WEAK_SIGNATURE_ALGORITHM"},
	{Code: "ERR_CLEARTEXT_NOT_PERMITTED"},
	{Code: "ERR_CLIENT_AUTH_CERT_TYPE_UNSUPPORTED"},
	{Code: "ERR_CONNECTION_ABORTED"},
	{Code: "ERR_CONNECTION_CLOSED"},
	{Code: "ERR_CONNECTION_FAILED"},
	{Code: "ERR_CONNECTION_REFUSED", Hint: "The url you are attempting to render is probably not publicly accesible."},
	{Code: "ERR_CONNECTION_RESET"},
	{Code: "ERR_CONNECTION_TIMED_OUT", Hint: "The host of the url did not answer in time."},
	{Code: "ERR_CONTENT_DECODING_FAILED"},
	{Code: "ERR_CONTENT_DECODING_INIT_FAILED"},
	{Code: "ERR_CONTENT_LENGTH_MISMATCH"},
	{Code: "ERR_CONTEXT_SHUT_DOWN"},
	{Code: "ERR_CT_CONSISTENCY_PROOF_PARSING_FAILED"},
	{Code: "ERR_CT_STH_INCOMPLETE"},
	{Code: "ERR_CT_STH_PARSING_FAILED"},
	{Code: "ERR_DISALLOWED_URL_SCHEME"},
	{Code: "ERR_DNS_CACHE_MISS"},
	{Code: "ERR_DNS_MALFORMED_RESPONSE"},
	{Code: "ERR_DNS_SEARCH_EMPTY"},
	{Code: "ERR_DNS_SECURE_RESOLVER_HOSTNAME_RESOLUTION_FAILED"},
	{Code: "ERR_DNS_SERVER_FAILED"},
	{Code: "ERR_DNS_SERVER_REQUIRES_TCP"},
	{Code: "ERR_DNS_SORT_ERROR"},
	{Code: "ERR_DNS_TIMED_OUT"},
	{Code: "ERR_EARLY_DATA_REJECTED"},
	{Code: "ERR_EMPTY_RESPONSE"},
	{Code: "ERR_ENCODING_CONVERSION_FAILED"},
	{Code: "ERR_ENCODING_DETECTION_FAILED"},
	{Code: "ERR_FAILED"},
	{Code: "ERR_FILE_EXISTS"},
	{Code: "ERR_FILE_NOT_FOUND"},
	{Code: "ERR_FILE_NO_SPACE"},
	{Code: "ERR_FILE_PATH_TOO_LONG"},
	{Code: "ERR_FILE_TOO_BIG"},
	{Code: "ERR_FILE_VIRUS_INFECTED"},
	{Code: "ERR_FTP_BAD_COMMAND_SEQUENCE"},
	{Code: "ERR_FTP_COMMAND_NOT_SUPPORTED"},
	{Code: "ERR_FTP_FAILED"},
	{Code: "ERR_FTP_FILE_BUSY"},
	{Code: "ERR_FTP_SERVICE_UNAVAILABLE"},
	{Code: "ERR_FTP_SYNTAX_ERROR"},
	{Code: "ERR_FTP_TRANSFER_ABORTED"},
	{Code: "ERR_H2_OR_QUIC_REQUIRED"},
	{Code: "ERR_HOST_RESOLVER_QUEUE_TOO_LARGE"},
	{Code: "ERR_HTTP2_CLAIMED_PUSHED_STREAM_RESET_BY_SERVER"},
	{Code: "ERR_HTTP2_CLIENT_REFUSED_STREAM"},
	{Code: "ERR_HTTP2_COMPRESSION_ERROR"},
	{Code: "ERR_HTTP2_FLOW_CONTROL_ERROR"},
	{Code: "ERR_HTTP2_FRAME_SIZE_ERROR"},
	{Code: "ERR_HTTP2_INADEQUATE_TRANSPORT_SECURITY"},
	{Code: "ERR_HTTP2_PING_FAILED"},
	{Code: "ERR_HTTP2_PROTOCOL_ERROR"},
	{Code: "ERR_HTTP2_PUSHED_RESPONSE_DOES_NOT_MATCH"},
	{Code: "ERR_HTTP2_PUSHED_STREAM_NOT_AVAILABLE"},
	{Code: "ERR_HTTP2_RST_STREAM_NO_ERROR_RECEIVED"},
	{Code: "ERR_HTTP2_SERVER_REFUSED_STREAM"},
	{Code: "ERR_HTTP2_STREAM_CLOSED"},
	{Code: "ERR_HTTPS_PROXY_TUNNEL_RESPONSE_REDIRECT"},
	{Code: "ERR_HTTP_1_1_REQUIRED"},
	{Code: "ERR_HTTP_RESPONSE_CODE_FAILURE"},
	{Code: "ERR_ICANN_NAME_COLLISION"},
	{Code: "ERR_IMPORT_CA_CERT_FAILED"},
	{Code: "ERR_IMPORT_CA_CERT_NOT_CA"},
	{Code: "ERR_IMPORT_CERT_ALREADY_EXISTS"},
	{Code: "ERR_IMPORT_SERVER_CERT_FAILED"},
	{Code: "ERR_INCOMPLETE_CHUNKED_ENCODING"},
	{Code: "ERR_INCOMPLETE_HTTP2_HEADERS"},
	{Code: "ERR_INSECURE_RESPONSE"},
	{Code: "ERR_INSUFFICIENT_RESOURCES"},
	{Code: "ERR_INTERNET_DISCONNECTED"},
	{Code: "ERR_INVALID_ARGUMENT"},
	{Code: "ERR_INVALID_AUTH_CREDENTIALS"},
	{Code: "ERR_INVALID_CHUNKED_ENCODING"},
	{Code: "ERR_INVALID_HANDLE"},
	{Code: "ERR_INVALID_HTTP_RESPONSE"},
	{Code: "ERR_INVALID_REDIRECT"},
	{Code: "ERR_INVALID_RESPONSE"},
	{Code: "ERR_INVALID_SIGNED_EXCHANGE"},
	{Code: "ERR_INVALID_URL"},
	{Code: "ERR_INVALID_WEB_BUNDLE"},
	{Code: "ERR_KEY_GENERATION_FAILED"},
	{Code: "ERR_MALFORMED_IDENTITY"},
	{Code: "ERR_MANDATORY_PROXY_CONFIGURATION_FAILED"},
	{Code: "ERR_METHOD_NOT_SUPPORTED"},
	{Code: "ERR_MISCONFIGURED_AUTH_ENVIRONMENT"},
	{Code: "ERR_MISSING_AUTH_CREDENTIALS"},
	{Code: "ERR_MSG_TOO_BIG"},
	{Code: "ERR_NAME_NOT_RESOLVED", Hint: "The host name of the url could not be resolved. Check for typos and that the domain is public."},
	{Code: "ERR_NAME_RESOLUTION_FAILED"},
	{Code: "ERR_NETWORK_ACCESS_DENIED"},
	{Code: "ERR_NETWORK_CHANGED"},
	{Code: "ERR_NETWORK_IO_SUSPENDED"},
	{Code: "ERR_NOT_IMPLEMENTED"},
	{Code: "ERR_NO_BUFFER_SPACE"},
	{Code: "ERR_NO_PRIVATE_KEY_FOR_CERT"},
	{Code: "ERR_NO_SSL_VERSIONS_ENABLED"},
	{Code: "ERR_NO_SUPPORTED_PROXIES"},
	{Code: "ERR_OUT_OF_MEMORY"},
	{Code: "ERR_PAC_NOT_IN_DHCP"},
	{Code: "ERR_PAC_SCRIPT_FAILED"},
	{Code: "ERR_PAC_SCRIPT_TERMINATED"},
	{Code: "ERR_PKCS12_IMPORT_BAD_PASSWORD"},
	{Code: "ERR_PKCS12_IMPORT_FAILED"},
	{Code: "ERR_PKCS12_IMPORT_INVALID_FILE"},
	{Code: "ERR_PKCS12_IMPORT_INVALID_MAC"},
	{Code: "ERR_PKCS12_IMPORT_UNSUPPORTED"},
	{Code: "ERR_PRECONNECT_MAX_SOCKET_LIMIT"},
	{Code: "ERR_PRIVATE_KEY_EXPORT_FAILED"},
	{Code: "ERR_PROXY_AUTH_REQUESTED"},
	{Code: "ERR_PROXY_AUTH_REQUESTED_WITH_NO_CONNECTION"},
	{Code: "ERR_PROXY_AUTH_UNSUPPORTED"},
	{Code: "ERR_PROXY_CERTIFICATE_INVALID"},
	{Code: "ERR_PROXY_CONNECTION_FAILED"},
	{Code: "ERR_PROXY_HTTP_1_1_REQUIRED"},
	{Code: "ERR_QUIC_CERT_ROOT_NOT_KNOWN"},
	{Code: "ERR_QUIC_GOAWAY_REQUEST_CAN_BE_RETRIED"},
	{Code: "ERR_QUIC_HANDSHAKE_FAILED"},
	{Code: "ERR_QUIC_PROTOCOL_ERROR"},
	{Code: "ERR_READ_IF_READY_NOT_IMPLEMENTED"},
	{Code: "ERR_REQUEST_RANGE_NOT_SATISFIABLE"},
	{Code: "ERR_RESPONSE_BODY_TOO_BIG_TO_DRAIN"},
	{Code: "ERR_RESPONSE_HEADERS_MULTIPLE_CONTENT_DISPOSITION"},
	{Code: "ERR_RESPONSE_HEADERS_MULTIPLE_CONTENT_LENGTH"},
	{Code: "ERR_RESPONSE_HEADERS_MULTIPLE_LOCATION"},
	{Code: "ERR_RESPONSE_HEADERS_TOO_BIG"},
	{Code: "ERR_RESPONSE_HEADERS_TRUNCATED"},
	{Code: "ERR_SELF_SIGNED_CERT_GENERATION_FAILED"},
	{Code: "ERR_SOCKET_IS_CONNECTED"},
	{Code: "ERR_SOCKET_NOT_CONNECTED"},
	{Code: "ERR_SOCKET_RECEIVE_BUFFER_SIZE_UNCHANGEABLE"},
	{Code: "ERR_SOCKET_SEND_BUFFER_SIZE_UNCHANGEABLE"},
	{Code: "ERR_SOCKET_SET_RECEIVE_BUFFER_SIZE_ERROR"},
	{Code: "ERR_SOCKET_SET_SEND_BUFFER_SIZE_ERROR"},
	{Code: "ERR_SOCKS_CONNECTION_FAILED"},
	{Code: "ERR_SOCKS_CONNECTION_HOST_UNREACHABLE"},
	{Code: "ERR_SSL_BAD_PEER_PUBLIC_KEY"},
	{Code: "ERR_SSL_BAD_RECORD_MAC_ALERT"},
	{Code: "ERR_SSL_CLIENT_AUTH_CERT_BAD_FORMAT"},
	{Code: "ERR_SSL_CLIENT_AUTH_CERT_NEEDED"},
	{Code: "ERR_SSL_CLIENT_AUTH_CERT_NO_PRIVATE_KEY"},
	{Code: "ERR_SSL_CLIENT_AUTH_NO_COMMON_ALGORITHMS"},
	{Code: "ERR_SSL_CLIENT_AUTH_PRIVATE_KEY_ACCESS_DENIED"},
	{Code: "ERR_SSL_CLIENT_AUTH_SIGNATURE_FAILED"},
	{Code: "ERR_SSL_DECOMPRESSION_FAILURE_ALERT"},
	{Code: "ERR_SSL_DECRYPT_ERROR_ALERT"},
	{Code: "ERR_SSL_HANDSHAKE_NOT_COMPLETED"},
	{Code: "ERR_SSL_KEY_USAGE_INCOMPATIBLE"},
	{Code: "ERR_SSL_NO_RENEGOTIATION"},
	{Code: "ERR_SSL_OBSOLETE_CIPHER"},
	{Code: "ERR_SSL_OBSOLETE_VERSION"},
	{Code: "ERR_SSL_PINNED_KEY_NOT_IN_CERT_CHAIN"},
	{Code: "ERR_SSL_PROTOCOL_ERROR"},
	{Code: "ERR_SSL_RENEGOTIATION_REQUESTED"},
	{Code: "ERR_SSL_SERVER_CERT_BAD_FORMAT"},
	{Code: "ERR_SSL_SERVER_CERT_CHANGED"},
	{Code: "ERR_SSL_UNRECOGNIZED_NAME_ALERT"},
	{Code: "ERR_SSL_VERSION_OR_CIPHER_MISMATCH"},
	{Code: "ERR_SYN_REPLY_NOT_RECEIVED"},
	{Code: "ERR_TEMPORARILY_THROTTLED"},
	{Code: "ERR_TIMED_OUT", Hint: "The page did not finish loading before the render timeout."},
	{Code: "ERR_TLS13_DOWNGRADE_DETECTED"},
	{Code: "ERR_TOO_MANY_REDIRECTS", Hint: "The url redirects in a loop."},
	{Code: "ERR_TOO_MANY_RETRIES"},
	{Code: "ERR_TRUST_TOKEN_OPERATION_FAILED"},
	{Code: "ERR_TRUST_TOKEN_OPERATION_SUCCESS_WITHOUT_SENDING_REQUEST"},
	{Code: "ERR_TUNNEL_CONNECTION_FAILED"},
	{Code: "ERR_UNABLE_TO_REUSE_CONNECTION_FOR_PROXY_AUTH"},
	{Code: "ERR_UNDOCUMENTED_SECURITY_LIBRARY_STATUS"},
	{Code: "ERR_UNEXPECTED"},
	{Code: "ERR_UNEXPECTED_PROXY_AUTH"},
	{Code: "ERR_UNEXPECTED_SECURITY_LIBRARY_STATUS"},
	{Code: "ERR_UNKNOWN_URL_SCHEME"},
	{Code: "ERR_UNRECOGNIZED_FTP_DIRECTORY_LISTING_FORMAT"},
	{Code: "ERR_UNSAFE_PORT"},
	{Code: "ERR_UNSAFE_REDIRECT"},
	{Code: "ERR_UNSUPPORTED_AUTH_SCHEME"},
	{Code: "ERR_UPLOAD_FILE_CHANGED"},
	{Code: "ERR_UPLOAD_STREAM_REWIND_NOT_SUPPORTED"},
	{Code: "ERR_WINSOCK_UNEXPECTED_WRITTEN_BYTES"},
	{Code: "ERR_WRONG_VERSION_ON_EARLY_DATA"},
	{Code: "ERR_WS_PROTOCOL_ERROR"},
	{Code: "ERR_WS_THROTTLE_QUEUE_TOO_LARGE"},
	{Code: "ERR_WS_UPGRADE"},
}
