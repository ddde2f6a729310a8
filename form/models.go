package form

// AgentRole identifies which side of the transaction the submitting agent
// represents. It is the single discriminator for template selection and for
// role-conditional validation.
type AgentRole string

const (
	RoleBuyersAgent  AgentRole = "BUYERS AGENT"
	RoleListingAgent AgentRole = "LISTING AGENT"
	RoleDualAgent    AgentRole = "DUAL AGENT"
)

// Valid reports whether the role belongs to the closed set of agent roles.
func (r AgentRole) Valid() bool {
	switch r {
	case RoleBuyersAgent, RoleListingAgent, RoleDualAgent:
		return true
	default:
		return false
	}
}

// ClientType marks a client as the buying or selling party.
type ClientType string

const (
	ClientBuyer  ClientType = "BUYER"
	ClientSeller ClientType = "SELLER"
)

// TransactionFormData is the aggregate produced by one wizard submission. It
// is consumed exactly once by the delivery pipeline; long-term persistence is
// owned by the record-store, not by this process.
type TransactionFormData struct {
	AgentData           AgentData           `json:"agentData"`
	PropertyData        PropertyData        `json:"propertyData"`
	Clients             []Client            `json:"clients"`
	CommissionData      CommissionData      `json:"commissionData"`
	PropertyDetailsData PropertyDetailsData `json:"propertyDetailsData"`
	TitleData           TitleData           `json:"titleData"`
	DocumentsData       DocumentsData       `json:"documentsData"`
	AdditionalInfo      AdditionalInfo      `json:"additionalInfo"`
	SignatureData       SignatureData       `json:"signatureData"`
}

// AgentData identifies the submitting agent.
type AgentData struct {
	Role  AgentRole `json:"role"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Phone string    `json:"phone"`
}

// PropertyData describes the property under contract.
type PropertyData struct {
	Address       string `json:"address"`
	MLSNumber     string `json:"mlsNumber"`
	SalePrice     string `json:"salePrice"`
	Status        string `json:"status"`
	IsWinterized  string `json:"isWinterized"`
	ClosingDate   string `json:"closingDate"`
	UpdateMLS     string `json:"updateMls"`
	AccessType    string `json:"accessType"`
	AccessCode    string `json:"accessCode"`
	County        string `json:"county"`
	PropertyType  string `json:"propertyType"`
	IsBuiltBefore string `json:"isBuiltBefore1978"`
}

// Client is one party to the transaction. ID is unique within a submission.
type Client struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	Address       string     `json:"address"`
	MaritalStatus string     `json:"maritalStatus"`
	Type          ClientType `json:"type"`
}

// CommissionData carries the percentage splits. Values are kept as the raw
// strings the wizard collected; numeric coercion happens in the mapping layer.
type CommissionData struct {
	TotalCommissionPercentage string `json:"totalCommissionPercentage"`
	ListingAgentPercentage    string `json:"listingAgentPercentage"`
	BuyersAgentPercentage     string `json:"buyersAgentPercentage"`
	HasBrokerFee              string `json:"hasBrokerFee"`
	BrokerFeeAmount           string `json:"brokerFeeAmount"`
	HasSellersAssist          string `json:"hasSellersAssist"`
	SellersAssist             string `json:"sellersAssist"`
	IsReferral                string `json:"isReferral"`
	ReferralParty             string `json:"referralParty"`
	ReferralFee               string `json:"referralFee"`
	BrokerEIN                 string `json:"brokerEin"`
	CoordinatorFeePaidBy      string `json:"coordinatorFeePaidBy"`
}

// PropertyDetailsData collects the follow-up questions about the property.
type PropertyDetailsData struct {
	ResaleCertRequired     string `json:"resaleCertRequired"`
	HOAName                string `json:"hoaName"`
	CORequired             string `json:"coRequired"`
	MunicipalityTownship   string `json:"municipality"`
	FirstRightOfRefusal    string `json:"firstRightOfRefusal"`
	FirstRightName         string `json:"firstRightName"`
	AttorneyRepresentation string `json:"attorneyRepresentation"`
	AttorneyName           string `json:"attorneyName"`
	HomeWarranty           string `json:"homeWarranty"`
	WarrantyCompany        string `json:"warrantyCompany"`
	WarrantyCost           string `json:"warrantyCost"`
	WarrantyPaidBy         string `json:"warrantyPaidBy"`
}

// TitleData names the title company handling settlement.
type TitleData struct {
	TitleCompany string `json:"titleCompany"`
}

// DocumentsData records which required documents the agent confirmed.
type DocumentsData struct {
	Confirmed bool     `json:"confirmDocuments"`
	Selected  []string `json:"selectedDocuments"`
}

// AdditionalInfo holds free-form notes and follow-up requirements.
type AdditionalInfo struct {
	SpecialInstructions string `json:"specialInstructions"`
	UrgentIssues        string `json:"urgentIssues"`
	Notes               string `json:"notes"`
	RequiresFollowUp    string `json:"requiresFollowUp"`
}

// SignatureData captures the submitting agent's attestation.
type SignatureData struct {
	Signature     string `json:"signature"`
	InfoConfirmed bool   `json:"infoConfirmed"`
	TermsAccepted bool   `json:"termsAccepted"`
	DateSubmitted string `json:"dateSubmitted"`
}

// BuyerClients returns the clients marked as buyers.
func (f *TransactionFormData) BuyerClients() []Client {
	return f.clientsOfType(ClientBuyer)
}

// SellerClients returns the clients marked as sellers.
func (f *TransactionFormData) SellerClients() []Client {
	return f.clientsOfType(ClientSeller)
}

func (f *TransactionFormData) clientsOfType(t ClientType) []Client {
	var out []Client
	for _, c := range f.Clients {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}
