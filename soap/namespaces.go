package soap

// XML namespace URIs.
const (
	// NsSoap11 is the SOAP 1.1 envelope namespace.
	NsSoap11 = "http://schemas.xmlsoap.org/soap/envelope/"

	// NsSoap12 is the SOAP 1.2 envelope namespace.
	NsSoap12 = "http://www.w3.org/2003/05/soap-envelope"

	// NsArrays is the WCF data contract namespace for array items.
	NsArrays = "http://schemas.microsoft.com/2003/10/Serialization/Arrays"

	// NsAPI25Prefix prefixes the namespace of every API25 service.
	NsAPI25Prefix = "urn:trisoft-ish-api25:"
)

// API25 service names.
const (
	ServiceApplication = "Application25"
	ServiceSettings    = "Settings25"
	ServiceDocumentObj = "DocumentObj25"
	ServiceFolder      = "Folder25"
	ServiceSearch      = "Search25"
	ServiceUser        = "User25"
	ServiceUserRole    = "UserRole25"
)

// ServiceNamespace returns the target namespace of service.
func ServiceNamespace(service string) string {
	return NsAPI25Prefix + service
}

// Action returns the SOAPAction of operation on service.
func Action(service, operation string) string {
	return ServiceNamespace(service) + "/" + operation
}
