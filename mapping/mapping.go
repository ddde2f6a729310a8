package mapping

import (
	"strings"

	"coverflow/form"
)

// Mapping pairs one wizard value with one external record-store field.
// Tables of these are immutable and scoped per agent role.
type Mapping struct {
	// Field is the opaque identifier of the record-store column.
	Field string
	// Key addresses the source value in the flattened form.
	Key string
	// Transform is optional; absence means the raw string passes through.
	Transform Transform
}

// MapFields projects a flattened form section onto external field
// identifiers. Entries whose source value is absent are skipped, and entries
// whose transform rejects the value are skipped as well, so the output only
// ever contains values safe to write. MapFields is pure and never fails.
func MapFields(values map[string]string, table []Mapping) map[string]any {
	out := make(map[string]any, len(table))
	for _, m := range table {
		raw, present := values[m.Key]
		if !present || strings.TrimSpace(raw) == "" {
			continue
		}
		if m.Transform == nil {
			out[m.Field] = raw
			continue
		}
		v, ok := m.Transform(raw)
		if !ok {
			continue
		}
		out[m.Field] = v
	}
	return out
}

// Flatten turns the typed form aggregate into the flat key space the mapping
// tables address. Client fields are exposed once per party side; with several
// clients per side the names are joined since the cover sheet has one line.
func Flatten(f *form.TransactionFormData) map[string]string {
	v := map[string]string{
		"agentRole":  string(f.AgentData.Role),
		"agentName":  f.AgentData.Name,
		"agentEmail": f.AgentData.Email,
		"agentPhone": f.AgentData.Phone,

		"propertyAddress":   f.PropertyData.Address,
		"mlsNumber":         f.PropertyData.MLSNumber,
		"salePrice":         f.PropertyData.SalePrice,
		"propertyStatus":    f.PropertyData.Status,
		"isWinterized":      f.PropertyData.IsWinterized,
		"closingDate":       f.PropertyData.ClosingDate,
		"updateMls":         f.PropertyData.UpdateMLS,
		"accessType":        f.PropertyData.AccessType,
		"accessCode":        f.PropertyData.AccessCode,
		"county":            f.PropertyData.County,
		"propertyType":      f.PropertyData.PropertyType,
		"isBuiltBefore1978": f.PropertyData.IsBuiltBefore,

		"totalCommissionPercentage": f.CommissionData.TotalCommissionPercentage,
		"listingAgentPercentage":    f.CommissionData.ListingAgentPercentage,
		"buyersAgentPercentage":     f.CommissionData.BuyersAgentPercentage,
		"hasBrokerFee":              f.CommissionData.HasBrokerFee,
		"brokerFeeAmount":           f.CommissionData.BrokerFeeAmount,
		"hasSellersAssist":          f.CommissionData.HasSellersAssist,
		"sellersAssist":             f.CommissionData.SellersAssist,
		"isReferral":                f.CommissionData.IsReferral,
		"referralParty":             f.CommissionData.ReferralParty,
		"referralFee":               f.CommissionData.ReferralFee,
		"brokerEin":                 f.CommissionData.BrokerEIN,

		"resaleCertRequired":     f.PropertyDetailsData.ResaleCertRequired,
		"hoaName":                f.PropertyDetailsData.HOAName,
		"coRequired":             f.PropertyDetailsData.CORequired,
		"municipality":           f.PropertyDetailsData.MunicipalityTownship,
		"firstRightOfRefusal":    f.PropertyDetailsData.FirstRightOfRefusal,
		"firstRightName":         f.PropertyDetailsData.FirstRightName,
		"attorneyRepresentation": f.PropertyDetailsData.AttorneyRepresentation,
		"attorneyName":           f.PropertyDetailsData.AttorneyName,
		"homeWarranty":           f.PropertyDetailsData.HomeWarranty,
		"warrantyCompany":        f.PropertyDetailsData.WarrantyCompany,
		"warrantyCost":           f.PropertyDetailsData.WarrantyCost,
		"warrantyPaidBy":         f.PropertyDetailsData.WarrantyPaidBy,

		"titleCompany": f.TitleData.TitleCompany,

		"specialInstructions": f.AdditionalInfo.SpecialInstructions,
		"urgentIssues":        f.AdditionalInfo.UrgentIssues,
		"notes":               f.AdditionalInfo.Notes,
		"requiresFollowUp":    f.AdditionalInfo.RequiresFollowUp,

		"agentSignature": f.SignatureData.Signature,
		"dateSubmitted":  f.SignatureData.DateSubmitted,
	}

	addClients(v, "buyer", f.BuyerClients())
	addClients(v, "seller", f.SellerClients())
	return v
}

func addClients(v map[string]string, prefix string, clients []form.Client) {
	if len(clients) == 0 {
		return
	}
	var names, emails, phones, addresses []string
	for _, c := range clients {
		if c.Name != "" {
			names = append(names, c.Name)
		}
		if c.Email != "" {
			emails = append(emails, c.Email)
		}
		if c.Phone != "" {
			phones = append(phones, c.Phone)
		}
		if c.Address != "" {
			addresses = append(addresses, c.Address)
		}
	}
	v[prefix+"Name"] = strings.Join(names, " & ")
	v[prefix+"Email"] = strings.Join(emails, ", ")
	v[prefix+"Phone"] = strings.Join(phones, ", ")
	v[prefix+"Address"] = strings.Join(addresses, "; ")
	v[prefix+"MaritalStatus"] = clients[0].MaritalStatus
}
