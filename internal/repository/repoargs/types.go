package repoargs

type RepositoryName string

const (
	UserRepoName               RepositoryName = "user"
	OrderRepoName              RepositoryName = "order"
	MatchRepoName              RepositoryName = "match"
	RoundRepoName              RepositoryName = "round"
	BalanceTransactionRepoName RepositoryName = "balance_transaction"
	DepositTicketRepoName      RepositoryName = "deposit_ticket"
)

func (r RepositoryName) String() string {
	return string(r)
}

// BatchExecQueryRow коллбек для пакетных операций. Вызывается для каждого
// элемента пакета с его порядковым индексом и ошибкой выполнения этого элемента.
type BatchExecQueryRow func(i int, err error)
