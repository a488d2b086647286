package bigquery

type tableFunc func(name string) string

func selectAccountsSQL(table tableFunc) string {
	return `
		SELECT user_id, account_id, name, balance, account_type, currency, position
		FROM ` + table("accounts") + `
		WHERE user_id = @user_id
		ORDER BY position ASC
	`
}

func selectTransactionsSQL(table tableFunc) string {
	return `
		SELECT user_id, transaction_id, account_id, category_id, amount,
			transaction_type, transaction_date, description, position
		FROM ` + table("transactions") + `
		WHERE user_id = @user_id
		ORDER BY position ASC
	`
}

func selectCategoriesSQL(table tableFunc) string {
	return `
		SELECT user_id, category_id, name, category_type, color, position
		FROM ` + table("categories") + `
		WHERE user_id = @user_id
		ORDER BY position ASC
	`
}

// saveSnapshotSQL replaces every row of @user_id with the @accounts,
// @transactions and @categories array parameters and touches the users row.
func saveSnapshotSQL(table tableFunc) string {
	return `
		BEGIN TRANSACTION;

		DELETE FROM ` + table("accounts") + ` WHERE user_id = @user_id;
		DELETE FROM ` + table("transactions") + ` WHERE user_id = @user_id;
		DELETE FROM ` + table("categories") + ` WHERE user_id = @user_id;

		INSERT INTO ` + table("accounts") + `
			(user_id, account_id, name, balance, account_type, currency, position)
		SELECT user_id, account_id, name, balance, account_type, currency, position
		FROM UNNEST(@accounts);

		INSERT INTO ` + table("transactions") + `
			(user_id, transaction_id, account_id, category_id, amount,
			 transaction_type, transaction_date, description, position)
		SELECT user_id, transaction_id, account_id, category_id, amount,
			transaction_type, transaction_date, description, position
		FROM UNNEST(@transactions);

		INSERT INTO ` + table("categories") + `
			(user_id, category_id, name, category_type, color, position)
		SELECT user_id, category_id, name, category_type, color, position
		FROM UNNEST(@categories);

		MERGE ` + table("users") + ` u
		USING (SELECT @user_id AS user_id) s
		ON u.user_id = s.user_id
		WHEN MATCHED THEN
			UPDATE SET updated_ts = CURRENT_TIMESTAMP()
		WHEN NOT MATCHED THEN
			INSERT (user_id, created_ts, updated_ts)
			VALUES (s.user_id, CURRENT_TIMESTAMP(), CURRENT_TIMESTAMP());

		COMMIT TRANSACTION;
	`
}
