package store

// Collection は論理コレクションの識別子を表す。
type Collection string

const (
	// CollectionUsers はユーザーレコードのコレクション。
	CollectionUsers Collection = "users"
	// CollectionSessions はサインインセッションのコレクション。
	CollectionSessions Collection = "sessions"
	// CollectionFriends は連絡先（友人）レコードのコレクション。
	CollectionFriends Collection = "friends"
	// CollectionRequests は友達リクエストのコレクション。
	CollectionRequests Collection = "requests"
)

// storagePrefix は永続化キーの名前空間プレフィックス。
const storagePrefix = "relink_"

// knownCollections は定義済みコレクションとその永続化キーのマッピング。
// 文字列switchではなく固定の対応表として閉じ、未知の名前はフォールバックで解決する。
var knownCollections = map[Collection]string{
	CollectionUsers:    storagePrefix + "users",
	CollectionSessions: storagePrefix + "sessions",
	CollectionFriends:  storagePrefix + "friends",
	CollectionRequests: storagePrefix + "requests",
}

// Registry は論理コレクション名から永続化キーへの解決を行う。
// 定義済みの4コレクションに加え、任意の呼び出し側指定の名前も受け付ける。
type Registry struct{}

// NewRegistry はRegistryを生成する。
func NewRegistry() *Registry {
	return &Registry{}
}

// StorageKey は論理コレクション名を永続化キーに解決する。
// 未知の名前にはプレフィックスを付与して新しいコレクションとして扱う。
func (r *Registry) StorageKey(collection string) string {
	if key, ok := knownCollections[Collection(collection)]; ok {
		return key
	}
	return storagePrefix + collection
}

// DedupeByName は指定コレクションがnameフィールドでの重複排除を要求するかを返す。
// friendsコレクションのみの非公式な規約であり、一般化された制約ではない。
func (r *Registry) DedupeByName(collection string) bool {
	return Collection(collection) == CollectionFriends
}
