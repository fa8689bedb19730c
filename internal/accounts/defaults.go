package accounts

import "github.com/kakeibo-dev/kakeibo/internal/model"

// DefaultChart returns the accounts a new book starts with.
func DefaultChart() []model.Account {
	return []model.Account{
		{ID: 1, Name: "現金", Type: model.AccountTypeAsset, Class: model.ClassCurrent},
		{ID: 2, Name: "普通預金", Type: model.AccountTypeAsset, Class: model.ClassCurrent},
		{ID: 3, Name: "PayPay", Type: model.AccountTypeAsset, Class: model.ClassCurrent},
		{ID: 4, Name: "Vpoint", Type: model.AccountTypeAsset, Class: model.ClassCurrent},
		{ID: 5, Name: "クレジットカード", Type: model.AccountTypeLiability, Class: model.ClassCurrent, PayDay: 27, PayFromAccountID: 2},
		{ID: 6, Name: "支払い予定", Type: model.AccountTypeLiability, Class: model.ClassCurrent},
	}
}

// DefaultCategories returns the starting expense and income categories.
func DefaultCategories() model.Categories {
	return model.Categories{
		Expense: []string{
			"食費", "交通費", "交際費", "日用品費", "趣味・娯楽費",
			"通信費", "水道光熱費", "住居費", "保険料", "医療費",
			"被服費", "教育費", model.CategoryMisc,
		},
		Income: []string{"給与", "バイト代", "賞与", "副業", model.CategoryMiscIncome},
	}
}

// DefaultBook returns an empty book with the default chart and categories.
func DefaultBook() *model.Book {
	b := &model.Book{
		Accounts:   DefaultChart(),
		Categories: DefaultCategories(),
	}
	b.Normalize()
	return b
}
