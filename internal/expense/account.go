package expense

// DefaultAccount is the freee account used for any category without an
// explicit mapping, including the catch-all category.
const DefaultAccount = "雑費"

// accountMap maps expense categories to freee 勘定科目 names.
var accountMap = map[string]string{
	"駐車場": "旅費交通費",
	"交通費": "旅費交通費",
	"飲食費": "交際費",
	"宿泊費": "旅費交通費",
	"消耗品": "消耗品費",
	"通信費": "通信費",
}

// AccountFor returns the freee account name for a category.
func AccountFor(category string) string {
	if account, ok := accountMap[category]; ok {
		return account
	}
	return DefaultAccount
}
