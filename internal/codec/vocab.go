package codec

// Well-known namespace and term IRIs.
const (
	RDFNamespace = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	XSDNamespace = "http://www.w3.org/2001/XMLSchema#"

	RDFType       = RDFNamespace + "type"
	RDFXMLLiteral = RDFNamespace + "XMLLiteral"
	RDFLangString = RDFNamespace + "langString"
	RDFFirst      = RDFNamespace + "first"
	RDFRest       = RDFNamespace + "rest"
	RDFNil        = RDFNamespace + "nil"

	XSDString  = XSDNamespace + "string"
	XSDDouble  = XSDNamespace + "double"
	XSDFloat   = XSDNamespace + "float"
	XSDDecimal = XSDNamespace + "decimal"
	XSDInteger = XSDNamespace + "integer"
	XSDBoolean = XSDNamespace + "boolean"
)
