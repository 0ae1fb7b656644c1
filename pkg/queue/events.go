package queue

import "github.com/ThreeDotsLabs/watermill/message"

// -------------------------- 基于业务封装 events --------------------------

// PublishDocumentStored 发布 dv.document.stored 事件。
// 在文档内容写入存储且元数据落库后调用，通知下游流程（如索引、统计等）。
func PublishDocumentStored(pub message.Publisher, payload DocumentStoredPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicDocumentStored, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicDocumentStored, msg)
}

// ParseDocumentStored 将 Watermill 消息解析为强类型 Envelope（DocumentStoredPayload）。
func ParseDocumentStored(msg *message.Message) (Message[DocumentStoredPayload], error) {
	return ParseWatermillMessage[DocumentStoredPayload](msg)
}

// PublishDocumentVersioned 发布 dv.document.versioned 事件。
func PublishDocumentVersioned(pub message.Publisher, payload DocumentVersionedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicDocumentVersioned, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicDocumentVersioned, msg)
}

// ParseDocumentVersioned 将 Watermill 消息解析为强类型 Envelope（DocumentVersionedPayload）。
func ParseDocumentVersioned(msg *message.Message) (Message[DocumentVersionedPayload], error) {
	return ParseWatermillMessage[DocumentVersionedPayload](msg)
}
