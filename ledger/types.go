// Package ledger defines the point-value-change history record produced by a
// reconciliation run, and the sinks it can be exported to.
package ledger

import "strconv"

// Output headers, in the order they are written.
const (
	ColYear                = "年份"
	ColItemCode            = "特材代碼"
	ColItemCodePrefix5     = "特材代碼前五碼"
	ColPricingCategoryName = "核價類別名稱"
	ColBilingualName       = "中英文品名"
	ColModelSpec           = "產品型號/規格"
	ColUnit                = "單位"
	ColPaymentPoints       = "支付點數"
	ColApplicant           = "申請者簡稱"
	ColLicenseNumber       = "許可證字號"
	ColChineseName         = "中文品名"
	ColEnglishName         = "英文品名"
	ColChangeFlag          = "點數變更記錄"
)

// Columns is the fixed, exhaustive output header.
var Columns = []string{
	ColYear,
	ColItemCode,
	ColItemCodePrefix5,
	ColPricingCategoryName,
	ColBilingualName,
	ColModelSpec,
	ColUnit,
	ColPaymentPoints,
	ColApplicant,
	ColLicenseNumber,
	ColChineseName,
	ColEnglishName,
	ColChangeFlag,
}

// SourceColumns is Columns without the derived change flag: the columns a
// price survey row must carry.
var SourceColumns = Columns[:len(Columns)-1]

// Record is one price survey row that joined to the device index, with its
// derived change flag. Values other than ChangeFlag are kept verbatim from
// the survey file.
type Record struct {
	Year                string `parquet:"year"`
	ItemCode            string `parquet:"item_code"`
	ItemCodePrefix5     string `parquet:"item_code_prefix5"`
	PricingCategoryName string `parquet:"pricing_category_name"`
	BilingualName       string `parquet:"bilingual_name"`
	ModelSpec           string `parquet:"model_spec"`
	Unit                string `parquet:"unit"`
	PaymentPoints       string `parquet:"payment_points"`
	Applicant           string `parquet:"applicant"`
	LicenseNumber       string `parquet:"license_number"`
	ChineseName         string `parquet:"chinese_name"`
	EnglishName         string `parquet:"english_name"`
	ChangeFlag          int32  `parquet:"change_flag"` // 0 or 1
}

// RecordFromValues builds a Record from values ordered like SourceColumns.
func RecordFromValues(v []string, flag int32) Record {
	return Record{
		Year:                v[0],
		ItemCode:            v[1],
		ItemCodePrefix5:     v[2],
		PricingCategoryName: v[3],
		BilingualName:       v[4],
		ModelSpec:           v[5],
		Unit:                v[6],
		PaymentPoints:       v[7],
		Applicant:           v[8],
		LicenseNumber:       v[9],
		ChineseName:         v[10],
		EnglishName:         v[11],
		ChangeFlag:          flag,
	}
}

// Values returns the record as a row ordered like Columns.
func (r Record) Values() []string {
	return []string{
		r.Year,
		r.ItemCode,
		r.ItemCodePrefix5,
		r.PricingCategoryName,
		r.BilingualName,
		r.ModelSpec,
		r.Unit,
		r.PaymentPoints,
		r.Applicant,
		r.LicenseNumber,
		r.ChineseName,
		r.EnglishName,
		strconv.Itoa(int(r.ChangeFlag)),
	}
}

// Ledger is the full result of one run.
type Ledger struct {
	Records []Record
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Records)
}

// Flagged returns how many records carry ChangeFlag == 1.
func (l *Ledger) Flagged() int {
	if l == nil {
		return 0
	}
	n := 0
	for _, r := range l.Records {
		if r.ChangeFlag == 1 {
			n++
		}
	}
	return n
}

// Header returns a copy of Columns.
func (l *Ledger) Header() []string {
	return append([]string(nil), Columns...)
}

// Rows renders every record as strings, ordered like Columns.
func (l *Ledger) Rows() [][]string {
	rows := make([][]string, 0, l.Len())
	for _, r := range l.Records {
		rows = append(rows, r.Values())
	}
	return rows
}
