package apperrors

var (
	// Codec
	ErrIntegrity        = New(CodeIntegrity, "message integrity check failed")
	ErrDecryption       = New(CodeDecryption, "message could not be decrypted")
	ErrUnsupportedAlgo  = New(CodeDecryption, "unsupported encryption algorithm")
	ErrMalformedPayload = New(CodeIntegrity, "malformed encrypted payload")

	// Lifecycle
	ErrMessageNotFound      = NotFound("message not found")
	ErrReceiverNotFound     = NotFound("receiver not found")
	ErrNotSender            = Forbidden("only the sender can modify this message")
	ErrNotParticipant       = Forbidden("you are not part of this conversation")
	ErrMessagesDisabled     = Forbidden("receiver has disabled private messages")
	ErrEditWindowExpired    = FailedPrecondition("message can no longer be edited")
	ErrReplyOutsideConv     = FailedPrecondition("reply target does not belong to this conversation")
	ErrReplyTargetMissing   = FailedPrecondition("reply target not found")
	ErrEmptyMessage         = InvalidArg("message must have content or media")
	ErrSelfMessage          = InvalidArg("cannot send a message to yourself")
	ErrInvalidDeleteScope   = InvalidArg("scope must be 'self' or 'everyone'")
)

// ErrPersistence wraps a storage failure coming out of the repository layer.
func ErrPersistence(op string, cause error) error {
	return Wrap(CodeInternal, op, cause)
}
