package columns

import "sort"

// Logical field names of an enquiry row.
const (
	FieldSrNo               = "srNo"
	FieldEnquiryNumber      = "enquiryNumber"
	FieldCustomerName       = "customerName"
	FieldContactInfo        = "contactInfo"
	FieldMarketType         = "marketType"
	FieldPONumber           = "poNumber"
	FieldDateReceived       = "dateReceived"
	FieldEnquiryDate        = "enquiryDate"
	FieldDateSubmitted      = "dateSubmitted"
	FieldEnquiryDetails     = "enquiryDetails"
	FieldRequirementSpec    = "requirementSpec"
	FieldQuantity           = "quantity"
	FieldEstimatedValue     = "estimatedValue"
	FieldDrawingStatus      = "drawingStatus"
	FieldCostingStatus      = "costingStatus"
	FieldRndStatus          = "rndStatus"
	FieldSalesStatus        = "salesStatus"
	FieldRndHandler         = "rndHandler"
	FieldSalesRep           = "salesRep"
	FieldStatus             = "status"
	FieldActivity           = "activity"
	FieldSupplyScope        = "supplyScope"
	FieldProductType        = "productType"
	FieldManufacturingScope = "manufacturingScope"
	FieldQuoteDate          = "quoteDate"
	FieldClosureDate        = "closureDate"
	FieldDaysRequired       = "daysRequired"
	FieldRemarks            = "remarks"
	FieldDelayRemarks       = "delayRemarks"
)

// Aliases maps a logical field to the header spellings seen in real
// trackers. Earlier spellings win.
type Aliases map[string][]string

var defaultAliases = Aliases{
	FieldSrNo:          {"SR. No.", "SR NO", "S.No", "Serial No", "Sr No", "SR.No.", "Sr.No.", "S. No."},
	FieldEnquiryNumber: {"Enq No.", "ENQ NO", "Enquiry No", "Enquiry Number", "EnqNo", "Enq.No.", "Enq. No.", "ENQ. NO.", "Enquiry No."},
	FieldCustomerName:  {"Customer Name", "CUSTOMER NAME", "CUSTOMER", "Customer", "Client Name", "Client"},
	FieldContactInfo:   {"Contact Info", "Contact Details", "CONTACT", "Contact", "Contact Person"},
	FieldMarketType:    {"EXPORT / DOMESTIC", "Market", "Market Type", "MARKET TYPE", "Export/Domestic", "Market Segment", "EXPORT/DOMESTIC", "Export / Domestic"},
	FieldPONumber:      {"PO No.", "PO NO", "PO Number", "Purchase Order", "PONo", "PO. No.", "P.O. No."},

	FieldDateReceived:  {"DATE RECEIVED", "Date Received", "Received Date", "DateReceived", "DATE. RECEIVED", "Date. Received"},
	FieldEnquiryDate:   {"Enquiry Date", "ENQUIRY DATE", "Enq Date", "Date"},
	FieldDateSubmitted: {"DATE SUBMITTED", "Date Submitted", "Submitted Date", "DateSubmitted", "Quotation Date", "DATE. SUBMITTED", "Date. Submitted"},

	FieldEnquiryDetails:  {"Enquiry Details", "ENQUIRY DETAILS", "Details", "Description", "Item Description"},
	FieldRequirementSpec: {"Requirement Spec", "Requirement", "REQUIREMENT", "Specification", "Specs"},
	FieldQuantity:        {"Quantity", "QUANTITY", "Qty", "QTY"},
	FieldEstimatedValue:  {"Estimated Value", "ESTIMATED VALUE", "Est. Value", "Order Value", "Value"},

	FieldDrawingStatus: {"DRAWING", "Drawing", "Drawing Status", "Drawing Required", "DrawingRequired", "DRAWING.", "Drawing."},
	FieldCostingStatus: {"COSTING", "Costing", "Costing Status", "Costing Completed", "CostingCompleted", "COSTING.", "Costing."},
	FieldRndStatus:     {"R&D Status", "RND Status", "R&D STATUS"},
	FieldSalesStatus:   {"Sales Status", "SALES STATUS"},

	FieldRndHandler: {"R&D", "RND", "R&D Handler", "RND Handler", "R&D Person", "Research", "R & D", "R&D.", "R & D."},
	FieldSalesRep:   {"SALES", "Sales", "Sales Representative", "Sales Rep", "SALES REP", "Representative", "SALES.", "Sales."},

	FieldStatus:   {"OPEN / CLOSED", "STATUS", "Enquiry Status", "Status", "Open/Closed", "OPEN/CLOSED", "Open / Closed", "OPEN. / CLOSED."},
	FieldActivity: {"ACTIVITY", "Activity", "Current Activity", "ActivityStatus", "ACTIVITY.", "Activity."},

	FieldSupplyScope: {"SCOPE OF SUPPLY", "Supply Scope", "Scope", "SUPPLY SCOPE", "ScopeOfSupply", "Scope Of Supply", "SCOPE. OF SUPPLY"},
	FieldProductType: {
		"STANDARD / NON STANDARD\nPRODUCT (SP / NSP)", "STANDARD / NON STANDARD PRODUCT (SP / NSP)",
		"PRODUCT TYPE", "Product Type", "ProductType", "Product", "PRODUCT. TYPE", "Product. Type",
	},
	FieldManufacturingScope: {"INHOUSE / BROUGHTOUT", "INHOUSE / BROUGHT OUT", "Manufacturing Type", "Manufacturing Scope", "Inhouse/Broughtout"},

	FieldQuoteDate:   {"Quote Date", "QUOTE DATE", "Quoted Date"},
	FieldClosureDate: {"Closure Date", "CLOSURE DATE", "Closed Date", "Date Closed"},
	FieldDaysRequired: {
		"DAYS TO COMPLETE", "Days To Complete", "DAYS TO COMPLETE ENQUIRY", "Days Required", "Fulfillment Days",
		"DaysToComplete", "Days to Complete Enquiry", "DAYS. TO COMPLETE", "Days requiered for fullfillment",
	},

	FieldRemarks:      {"REMARK", "Remarks", "REMARKS", "Comments", "Notes", "Closure Reason", "REMARK.", "Remarks."},
	FieldDelayRemarks: {"Delay Remarks", "DELAY REMARKS", "Delay Reason", "Reason for Delay"},
}

// DefaultAliases returns a fresh copy of the built-in table.
func DefaultAliases() Aliases {
	return defaultAliases.Clone()
}

func (a Aliases) Clone() Aliases {
	out := make(Aliases, len(a))
	for field, names := range a {
		out[field] = append([]string(nil), names...)
	}
	return out
}

// Merge returns a copy of a where every field listed in override replaces
// the field's list.
func (a Aliases) Merge(override Aliases) Aliases {
	out := a.Clone()
	for field, names := range override {
		out[field] = append([]string(nil), names...)
	}
	return out
}

func (a Aliases) Fields() []string {
	out := make([]string, 0, len(a))
	for field := range a {
		out = append(out, field)
	}
	sort.Strings(out)
	return out
}
