package notionsync

import (
	"github.com/dvloznov/finsmart/internal/domain"
	"github.com/dvloznov/finsmart/internal/report"
	"github.com/jomei/notionapi"
)

// Property names used in the Notion databases.
const (
	PropAccountID     = "Account ID"
	PropAccountName   = "Name"
	PropAccountType   = "Type"
	PropCurrency      = "Currency"
	PropBalance       = "Balance"
	PropDescription   = "Description"
	PropTransactionID = "Transaction ID"
	PropDate          = "Date"
	PropAmount        = "Amount"
	PropTxType        = "Type"
	PropCategory      = "Category"
	PropAccount       = "Account"
)

// AccountProperties converts an account into properties of the Accounts
// database. The account id is the page title so it can be matched on re-export.
func AccountProperties(a domain.Account) notionapi.Properties {
	props := notionapi.Properties{
		PropAccountID:   title(a.ID),
		PropAccountName: richText(a.Name),
		PropBalance:     notionapi.NumberProperty{Number: a.Balance.InexactFloat64()},
	}
	if a.Type != "" {
		props[PropAccountType] = selectOption(string(a.Type))
	}
	if a.Currency != "" {
		props[PropCurrency] = selectOption(a.Currency)
	}
	return props
}

// TransactionProperties converts a transaction into properties of the
// Transactions database. accountPages maps account ids to Notion page ids;
// when the owning account has a page the transaction is linked to it,
// otherwise the raw account id is written instead.
func TransactionProperties(t domain.Transaction, cats []domain.Category, accountPages map[string]string) notionapi.Properties {
	date := notionapi.Date(t.Date)
	props := notionapi.Properties{
		PropDescription:   title(t.Description),
		PropTransactionID: richText(t.ID),
		PropDate:          notionapi.DateProperty{Date: &notionapi.DateObject{Start: &date}},
		PropAmount:        notionapi.NumberProperty{Number: t.Amount.InexactFloat64()},
		PropTxType:        selectOption(string(t.Type)),
		PropCategory:      selectOption(report.CategoryName(cats, t.CategoryID)),
	}

	if pageID, ok := accountPages[t.AccountID]; ok {
		props[PropAccount] = notionapi.RelationProperty{
			Relation: []notionapi.Relation{{ID: notionapi.PageID(pageID)}},
		}
	} else if t.AccountID != "" {
		props[PropAccount] = richText(t.AccountID)
	}
	return props
}

// extractAccountID reads the account id from a page's title property.
func extractAccountID(page notionapi.Page) string {
	if prop, ok := page.Properties[PropAccountID]; ok {
		if t, ok := prop.(*notionapi.TitleProperty); ok && len(t.Title) > 0 {
			return t.Title[0].PlainText
		}
	}
	return ""
}

// extractTransactionID reads the transaction id from a page's rich text property.
func extractTransactionID(page notionapi.Page) string {
	if prop, ok := page.Properties[PropTransactionID]; ok {
		if rt, ok := prop.(*notionapi.RichTextProperty); ok && len(rt.RichText) > 0 {
			return rt.RichText[0].PlainText
		}
	}
	return ""
}

func title(s string) notionapi.TitleProperty {
	return notionapi.TitleProperty{
		Title: []notionapi.RichText{
			{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: s}},
		},
	}
}

func richText(s string) notionapi.RichTextProperty {
	return notionapi.RichTextProperty{
		RichText: []notionapi.RichText{
			{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: s}},
		},
	}
}

func selectOption(name string) notionapi.SelectProperty {
	return notionapi.SelectProperty{Select: notionapi.Option{Name: name}}
}
