package reconcile

import (
	"fmt"
	"strings"

	"pricehistory/ledger"
)

// TableID names one of the three input tables.
type TableID string

const (
	FormatTable      TableID = "FormatTable"
	IndexTable       TableID = "IndexTable"
	PriceSurveyTable TableID = "PriceSurveyTable"
)

// tableOrder is the load and report order.
var tableOrder = []TableID{FormatTable, IndexTable, PriceSurveyTable}

// Column pairs a logical column name with the header used on disk.
type Column struct {
	Key    string
	Header string
}

func (c Column) String() string {
	return fmt.Sprintf("%s (%s)", c.Key, c.Header)
}

var (
	colPricingCategory         = Column{"PricingCategory", "核價類別"}
	colName                    = Column{"Name", "名稱"}
	colFunctionCategoryPrefix5 = Column{"FunctionCategoryPrefix5", "功能類別(前5碼)"}
	colItemCodePrefix5         = Column{"ItemCodePrefix5", ledger.ColItemCodePrefix5}
	colPricingCategoryName     = Column{"PricingCategoryName", ledger.ColPricingCategoryName}
)

// requiredColumns must be present before any join is attempted.
var requiredColumns = map[TableID][]Column{
	FormatTable:      {colPricingCategory},
	IndexTable:       {colName, colFunctionCategoryPrefix5},
	PriceSurveyTable: {colItemCodePrefix5, colPricingCategoryName},
}

// RequiredColumns returns the columns id must carry.
func RequiredColumns(id TableID) []Column {
	return append([]Column(nil), requiredColumns[id]...)
}

func joinColumns(cols []Column) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}
