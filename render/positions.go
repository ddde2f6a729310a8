package render

// Position tables transcribed from the measured paper cover sheets. Values
// are points from the bottom-left of a Letter page; each inner slice is one
// page. Do not round-trip these through unit conversions: they were measured
// once against the printed form and are treated as opaque constants.

var buyerPositions = [][]PositionEntry{
	{
		{Field: "Agent Name", X: 140, Y: 706, FontSize: 10, Bold: true},
		{Field: "Agent Phone", X: 390, Y: 706, FontSize: 10},
		{Field: "Agent Email", X: 140, Y: 690, FontSize: 9},

		{Field: "Property Address", X: 140, Y: 650, FontSize: 10, Bold: true},
		{Field: "MLS Number", X: 430, Y: 650, FontSize: 10},
		{Field: "Sale Price", X: 140, Y: 632, FontSize: 10},
		{Field: "Closing Date", X: 320, Y: 632, FontSize: 10},
		{Field: "County", X: 470, Y: 632, FontSize: 9},
		{Field: "Property Status", X: 140, Y: 614, FontSize: 9},
		{Field: "Access Type", X: 320, Y: 614, FontSize: 9},
		{Field: "Access Code", X: 470, Y: 614, FontSize: 9},

		{Field: "Buyer Name", X: 140, Y: 566, FontSize: 10, Bold: true},
		{Field: "Buyer Phone", X: 390, Y: 566, FontSize: 10},
		{Field: "Buyer Email", X: 140, Y: 550, FontSize: 9},
		{Field: "Buyer Address", X: 140, Y: 534, FontSize: 9},
		{Field: "Buyer Marital Status", X: 430, Y: 534, FontSize: 9},

		{Field: "Buyers Agent %", X: 190, Y: 486, FontSize: 10, Bold: true},
		{Field: "Broker Fee Amount", X: 320, Y: 486, FontSize: 10},
		{Field: "Sellers Assist Amount", X: 470, Y: 486, FontSize: 10},
		{Field: "Referral Party", X: 140, Y: 468, FontSize: 9},
		{Field: "Referral Fee", X: 390, Y: 468, FontSize: 9},

		{Field: "Attorney Name", X: 140, Y: 420, FontSize: 9},
		{Field: "Warranty Company", X: 140, Y: 404, FontSize: 9},
		{Field: "Warranty Cost", X: 350, Y: 404, FontSize: 9},
		{Field: "Title Company", X: 140, Y: 388, FontSize: 9},

		{Field: "Urgent Issues", X: 90, Y: 330, FontSize: 10, Bold: true},
		{Field: "Special Instructions", X: 90, Y: 296, FontSize: 9},
		{Field: "Additional Notes", X: 90, Y: 240, FontSize: 9},

		{Field: "Agent Signature", X: 140, Y: 120, FontSize: 11},
		{Field: "Date Submitted", X: 430, Y: 120, FontSize: 10},
	},
}

var sellerPositions = [][]PositionEntry{
	{
		{Field: "Agent Name", X: 140, Y: 706, FontSize: 10, Bold: true},
		{Field: "Agent Phone", X: 390, Y: 706, FontSize: 10},
		{Field: "Agent Email", X: 140, Y: 690, FontSize: 9},

		{Field: "Property Address", X: 140, Y: 650, FontSize: 10, Bold: true},
		{Field: "MLS Number", X: 430, Y: 650, FontSize: 10},
		{Field: "Sale Price", X: 140, Y: 632, FontSize: 10},
		{Field: "Closing Date", X: 320, Y: 632, FontSize: 10},
		{Field: "County", X: 470, Y: 632, FontSize: 9},
		{Field: "Property Status", X: 140, Y: 614, FontSize: 9},
		{Field: "Update MLS", X: 320, Y: 614, FontSize: 9},

		{Field: "Seller Name", X: 140, Y: 566, FontSize: 10, Bold: true},
		{Field: "Seller Phone", X: 390, Y: 566, FontSize: 10},
		{Field: "Seller Email", X: 140, Y: 550, FontSize: 9},
		{Field: "Seller Address", X: 140, Y: 534, FontSize: 9},
		{Field: "Seller Marital Status", X: 430, Y: 534, FontSize: 9},

		{Field: "Total Commission %", X: 190, Y: 486, FontSize: 10, Bold: true},
		{Field: "Listing Agent %", X: 320, Y: 486, FontSize: 10},
		{Field: "Buyers Agent %", X: 470, Y: 486, FontSize: 10},
		{Field: "Referral Party", X: 140, Y: 468, FontSize: 9},
		{Field: "Referral Fee", X: 390, Y: 468, FontSize: 9},

		{Field: "HOA Name", X: 140, Y: 420, FontSize: 9},
		{Field: "Municipality", X: 350, Y: 420, FontSize: 9},
		{Field: "First Right Name", X: 140, Y: 404, FontSize: 9},
		{Field: "Attorney Name", X: 350, Y: 404, FontSize: 9},
		{Field: "Title Company", X: 140, Y: 388, FontSize: 9},

		{Field: "Urgent Issues", X: 90, Y: 330, FontSize: 10, Bold: true},
		{Field: "Special Instructions", X: 90, Y: 296, FontSize: 9},
		{Field: "Additional Notes", X: 90, Y: 240, FontSize: 9},

		{Field: "Agent Signature", X: 140, Y: 120, FontSize: 11},
		{Field: "Date Submitted", X: 430, Y: 120, FontSize: 10},
	},
}

var dualPositions = [][]PositionEntry{
	{
		{Field: "Agent Name", X: 140, Y: 706, FontSize: 10, Bold: true},
		{Field: "Agent Phone", X: 390, Y: 706, FontSize: 10},
		{Field: "Agent Email", X: 140, Y: 690, FontSize: 9},

		{Field: "Property Address", X: 140, Y: 650, FontSize: 10, Bold: true},
		{Field: "MLS Number", X: 430, Y: 650, FontSize: 10},
		{Field: "Sale Price", X: 140, Y: 632, FontSize: 10},
		{Field: "Closing Date", X: 320, Y: 632, FontSize: 10},
		{Field: "Property Status", X: 470, Y: 632, FontSize: 9},

		{Field: "Buyer Name", X: 90, Y: 584, FontSize: 10, Bold: true},
		{Field: "Buyer Phone", X: 90, Y: 568, FontSize: 9},
		{Field: "Buyer Email", X: 90, Y: 552, FontSize: 9},
		{Field: "Buyer Marital Status", X: 90, Y: 536, FontSize: 9},

		{Field: "Seller Name", X: 330, Y: 584, FontSize: 10, Bold: true},
		{Field: "Seller Phone", X: 330, Y: 568, FontSize: 9},
		{Field: "Seller Email", X: 330, Y: 552, FontSize: 9},
		{Field: "Seller Marital Status", X: 330, Y: 536, FontSize: 9},

		{Field: "Total Commission %", X: 190, Y: 488, FontSize: 10, Bold: true},
		{Field: "Listing Agent %", X: 320, Y: 488, FontSize: 10},
		{Field: "Buyers Agent %", X: 470, Y: 488, FontSize: 10},
		{Field: "Sellers Assist Amount", X: 190, Y: 470, FontSize: 10},
		{Field: "Referral Party", X: 140, Y: 452, FontSize: 9},
		{Field: "Referral Fee", X: 390, Y: 452, FontSize: 9},
	},
	{
		{Field: "HOA Name", X: 140, Y: 700, FontSize: 9},
		{Field: "Attorney Name", X: 140, Y: 684, FontSize: 9},
		{Field: "Warranty Company", X: 140, Y: 668, FontSize: 9},
		{Field: "Warranty Cost", X: 350, Y: 668, FontSize: 9},
		{Field: "Title Company", X: 140, Y: 652, FontSize: 9},

		{Field: "Urgent Issues", X: 90, Y: 600, FontSize: 10, Bold: true},
		{Field: "Special Instructions", X: 90, Y: 566, FontSize: 9},
		{Field: "Additional Notes", X: 90, Y: 510, FontSize: 9},

		{Field: "Agent Signature", X: 140, Y: 120, FontSize: 11},
		{Field: "Date Submitted", X: 430, Y: 120, FontSize: 10},
	},
}

var positionTables = map[Template][][]PositionEntry{
	TemplateBuyer:     buyerPositions,
	TemplateSeller:    sellerPositions,
	TemplateDualAgent: dualPositions,
}
