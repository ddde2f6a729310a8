package mapping

import "coverflow/form"

// The three role-scoped tables below pair wizard keys with the record-store
// column identifiers. Columns are shared across roles where the cover sheets
// overlap; the buyer and seller tables differ in which party block they carry.

var commonTable = []Mapping{
	{Field: "Agent Name", Key: "agentName"},
	{Field: "Agent Email", Key: "agentEmail"},
	{Field: "Agent Phone", Key: "agentPhone", Transform: Phone},
	{Field: "Agent Role", Key: "agentRole"},

	{Field: "Property Address", Key: "propertyAddress"},
	{Field: "MLS Number", Key: "mlsNumber"},
	{Field: "Sale Price", Key: "salePrice", Transform: Currency},
	{Field: "Property Status", Key: "propertyStatus"},
	{Field: "Winterized", Key: "isWinterized", Transform: YesNo},
	{Field: "Closing Date", Key: "closingDate"},
	{Field: "Update MLS", Key: "updateMls", Transform: YesNo},
	{Field: "Access Type", Key: "accessType"},
	{Field: "Access Code", Key: "accessCode"},
	{Field: "County", Key: "county"},
	{Field: "Built Before 1978", Key: "isBuiltBefore1978", Transform: YesNo},

	{Field: "Referral", Key: "isReferral", Transform: YesNo},
	{Field: "Referral Party", Key: "referralParty"},
	{Field: "Referral Fee", Key: "referralFee", Transform: Percentage},
	{Field: "Broker EIN", Key: "brokerEin"},

	{Field: "Resale Cert Required", Key: "resaleCertRequired", Transform: YesNo},
	{Field: "HOA Name", Key: "hoaName"},
	{Field: "CO Required", Key: "coRequired", Transform: YesNo},
	{Field: "Municipality", Key: "municipality"},
	{Field: "First Right of Refusal", Key: "firstRightOfRefusal", Transform: YesNo},
	{Field: "First Right Name", Key: "firstRightName"},
	{Field: "Attorney Representation", Key: "attorneyRepresentation", Transform: YesNo},
	{Field: "Attorney Name", Key: "attorneyName"},
	{Field: "Home Warranty", Key: "homeWarranty", Transform: YesNo},
	{Field: "Warranty Company", Key: "warrantyCompany"},
	{Field: "Warranty Cost", Key: "warrantyCost", Transform: Currency},
	{Field: "Warranty Paid By", Key: "warrantyPaidBy"},

	{Field: "Title Company", Key: "titleCompany"},

	{Field: "Special Instructions", Key: "specialInstructions"},
	{Field: "Urgent Issues", Key: "urgentIssues"},
	{Field: "Additional Notes", Key: "notes"},
	{Field: "Requires Follow Up", Key: "requiresFollowUp", Transform: YesNo},

	{Field: "Agent Signature", Key: "agentSignature"},
	{Field: "Date Submitted", Key: "dateSubmitted"},
}

var buyerBlock = []Mapping{
	{Field: "Buyer Name", Key: "buyerName"},
	{Field: "Buyer Email", Key: "buyerEmail"},
	{Field: "Buyer Phone", Key: "buyerPhone", Transform: Phone},
	{Field: "Buyer Address", Key: "buyerAddress"},
	{Field: "Buyer Marital Status", Key: "buyerMaritalStatus"},

	{Field: "Buyers Agent %", Key: "buyersAgentPercentage", Transform: Percentage},
	{Field: "Broker Fee", Key: "hasBrokerFee", Transform: YesNo},
	{Field: "Broker Fee Amount", Key: "brokerFeeAmount", Transform: Currency},
	{Field: "Sellers Assist", Key: "hasSellersAssist", Transform: YesNo},
	{Field: "Sellers Assist Amount", Key: "sellersAssist", Transform: Currency},
}

var sellerBlock = []Mapping{
	{Field: "Seller Name", Key: "sellerName"},
	{Field: "Seller Email", Key: "sellerEmail"},
	{Field: "Seller Phone", Key: "sellerPhone", Transform: Phone},
	{Field: "Seller Address", Key: "sellerAddress"},
	{Field: "Seller Marital Status", Key: "sellerMaritalStatus"},

	{Field: "Total Commission %", Key: "totalCommissionPercentage", Transform: Percentage},
	{Field: "Listing Agent %", Key: "listingAgentPercentage", Transform: Percentage},
}

var (
	buyerTable  = concat(commonTable, buyerBlock)
	sellerTable = concat(commonTable, sellerBlock)
	dualTable   = concat(commonTable, buyerBlock, sellerBlock)
)

// TableForRole returns the immutable mapping table for the given role.
func TableForRole(role form.AgentRole) []Mapping {
	switch role {
	case form.RoleListingAgent:
		return sellerTable
	case form.RoleDualAgent:
		return dualTable
	default:
		return buyerTable
	}
}

// RecordFields maps a whole submission for its role in one call.
func RecordFields(f *form.TransactionFormData) map[string]any {
	return MapFields(Flatten(f), TableForRole(f.AgentData.Role))
}

func concat(tables ...[]Mapping) []Mapping {
	var out []Mapping
	for _, t := range tables {
		out = append(out, t...)
	}
	return out
}
